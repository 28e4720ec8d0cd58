// Package avoir provides the types and logic to track personal financial
// positions across heterogeneous product types and to value them at current
// market prices. It is designed to be local-first and auditable, ensuring
// users have full control and transparency over their financial data.
//
// The core functionalities include:
//   - Holdings Management: Recording positions (accounts, funds, loans,
//     crypto assets, commodities, real estate) in a human-readable,
//     version-controllable JSONL file.
//   - Rate Aggregation: A concurrent engine that builds a single,
//     internally-consistent matrix of exchange rates (fiat, commodity and
//     crypto) from several independent, slow, occasionally-failing price
//     sources, within a bounded time budget.
//   - Rate Caching: An in-memory TTL cache backed by a durable rates file
//     refreshed on a longer, independent cadence.
//   - Valuation: Converting every holding into a target currency through
//     the rate matrix, degrading gracefully when a rate is unknown.
//
// This package serves as the foundational logic for the `avoir`
// command-line tool.
package avoir
