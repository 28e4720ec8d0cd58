package avoir

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	// rateTTL is how long the in-memory base/commodity rates stay fresh.
	rateTTL = 5 * time.Minute
	// storageRefreshInterval is the independent, longer cadence at which the
	// matrix is persisted to storage.
	storageRefreshInterval = 6 * time.Hour

	// Per-cycle wall-clock budgets. The initial load waits longer because it
	// also resolves the baseline crypto set; the forced second load waits the
	// longest because position-held assets may require building the provider's
	// address index.
	defaultCycleTimeout    = 4 * time.Second
	initialCycleTimeout    = 7 * time.Second
	secondLoadCycleTimeout = 15 * time.Second
)

// RateEngine aggregates exchange rates from independent price sources into a
// single long-lived matrix, refreshing it under a TTL policy and persisting
// it on a separate cadence. It is a process-lifetime object: construct one
// and inject it wherever rates are needed.
type RateEngine struct {
	baseRates BaseRateProvider
	commodity CommodityPriceProvider
	crypto    CryptoPriceProvider
	storage   RateStorage
	positions PositionReader

	mu sync.Mutex // serializes refresh cycles

	matrix          RateMatrix // nil until hydrated or first refreshed
	lastBaseRefresh time.Time
	secondLoad      bool // cold-start double refresh pending

	hydrated chan struct{} // closed when storage hydration finished

	now func() time.Time // injectable clock
}

// NewRateEngine constructs the engine and starts hydrating the matrix from
// storage in the background; the first GetRates call waits for hydration to
// finish before deciding what to refresh.
func NewRateEngine(base BaseRateProvider, commodity CommodityPriceProvider, crypto CryptoPriceProvider, storage RateStorage, positions PositionReader) *RateEngine {
	e := &RateEngine{
		baseRates: base,
		commodity: commodity,
		crypto:    crypto,
		storage:   storage,
		positions: positions,
		hydrated:  make(chan struct{}),
		now:       time.Now,
	}
	go e.hydrate()
	return e
}

// hydrate best-effort loads the persisted matrix and last-saved timestamp.
// Storage failures leave the engine empty; the first cycle rebuilds it.
func (e *RateEngine) hydrate() {
	defer close(e.hydrated)

	ctx, cancel := context.WithTimeout(context.Background(), defaultCycleTimeout)
	defer cancel()

	stored, err := e.storage.Get(ctx)
	if err != nil {
		log.Printf("could not hydrate rates from storage: %v", err)
		return
	}
	if stored.IsEmpty() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.matrix = stored
	if saved, err := e.storage.LastSaved(ctx); err == nil && !saved.IsZero() {
		e.lastBaseRefresh = saved
	}
}

// GetRates returns the current rate matrix, refreshing it first when the
// policy requires it. initialLoad must be true only for the very first rate
// fetch after application start: it widens crypto coverage to the baseline
// symbol set and arms the one-time cold-start double refresh.
//
// GetRates never fails on provider, storage, or deadline trouble; all
// degradation is logged and visible only as staleness or missing entries.
// Concurrent callers are serialized: each receives the result of whichever
// cycle completes next.
func (e *RateEngine) GetRates(ctx context.Context, initialLoad bool) (RateMatrix, error) {
	<-e.hydrated

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refresh(ctx, initialLoad)
}

func (e *RateEngine) refresh(ctx context.Context, initialLoad bool) (RateMatrix, error) {
	refreshBase := e.needsBaseRefresh()

	if !refreshBase && !e.secondLoad && !initialLoad && e.matrix != nil {
		return e.matrix.Snapshot(), nil
	}

	timeout := defaultCycleTimeout
	if initialLoad {
		timeout = initialCycleTimeout
	} else if e.secondLoad {
		timeout = secondLoadCycleTimeout
	}
	log.Printf("refreshing exchange rates (base=%v, initial=%v, second=%v, budget=%v)",
		refreshBase, initialLoad, e.secondLoad, timeout)

	if e.matrix == nil {
		e.matrix = NewRateMatrix()
		e.lastBaseRefresh = e.now()
	}

	merger := newCycleMerger(e.matrix)
	tasks := e.scheduleTasks(ctx, refreshBase, initialLoad)
	runTasks(ctx, tasks, timeout, merger.consume)

	if merger.apply() {
		e.lastBaseRefresh = e.now()
	}

	// Force a save when the cold-start double refresh completes, and when a
	// position-driven crypto batch landed: address-keyed rates should be
	// durable before the next application start.
	force := e.secondLoad || merger.gotCryptoBatch
	e.persist(ctx, force)

	if e.secondLoad {
		e.secondLoad = false
	} else if initialLoad {
		e.secondLoad = true
	}

	return e.matrix.Snapshot(), nil
}

func (e *RateEngine) needsBaseRefresh() bool {
	if e.matrix == nil {
		return true
	}
	return e.now().Sub(e.lastBaseRefresh) >= rateTTL
}

// scheduleTasks builds the units of work for this cycle: the fiat matrix and
// every commodity when the base rates are stale, the baseline crypto grid on
// initial load, and one batched lookup for whatever crypto assets the
// positions currently hold.
func (e *RateEngine) scheduleTasks(ctx context.Context, refreshBase, initialLoad bool) []task {
	var tasks []task
	id := 0
	nextID := func() int { id++; return id }

	if refreshBase {
		tasks = append(tasks, task{
			id:   nextID(),
			kind: taskBase,
			run: func(ctx context.Context) (any, error) {
				raw, err := e.baseRates.Matrix(ctx)
				return raw, err
			},
		})

		for commodity := range CommoditySymbols {
			tasks = append(tasks, task{
				id:   nextID(),
				kind: taskCommodity,
				meta: taskMeta{commodity: commodity},
				run: func(ctx context.Context) (any, error) {
					price, err := e.commodity.Price(ctx, commodity)
					return price, err
				},
			})
		}
	}

	if initialLoad {
		for _, base := range SupportedCurrencies {
			for _, symbol := range BaselineCryptoSymbols {
				tasks = append(tasks, task{
					id:   nextID(),
					kind: taskCrypto,
					meta: taskMeta{symbol: symbol, base: base},
					run: func(ctx context.Context) (any, error) {
						price, err := e.crypto.Price(ctx, symbol, base)
						return price, err
					},
				})
			}
		}
	}

	assets, err := e.positions.HeldCryptoAssets(ctx)
	if err != nil {
		// On a fresh install there may be no position data yet; the fiat and
		// commodity refresh must still proceed.
		log.Printf("could not read held crypto assets: %v", err)
		assets = nil
	}
	if len(assets) > 0 {
		tasks = append(tasks, task{
			id:   nextID(),
			kind: taskCryptoBatch,
			meta: taskMeta{assets: len(assets)},
			run: func(ctx context.Context) (any, error) {
				prices, err := e.batchCryptoPrices(ctx, assets)
				return prices, err
			},
		})
	}

	return tasks
}

// batchCryptoPrices resolves prices for held assets. Assets with a contract
// address are looked up by address to avoid symbol collisions across chains;
// only address-less assets go through the symbol lookup.
func (e *RateEngine) batchCryptoPrices(ctx context.Context, assets []CryptoAssetKey) (CryptoPrices, error) {
	symbolSet := make(map[string]bool)
	addressSet := make(map[string]bool)
	for _, a := range assets {
		if a.ContractAddress != "" {
			addressSet[strings.ToLower(a.ContractAddress)] = true
		} else if a.Symbol != "" {
			symbolSet[strings.ToUpper(a.Symbol)] = true
		}
	}

	out := CryptoPrices{
		BySymbol:  make(map[string]map[string]Rate),
		ByAddress: make(map[string]map[string]Rate),
	}

	if len(symbolSet) > 0 {
		symbols := make([]string, 0, len(symbolSet))
		for s := range symbolSet {
			symbols = append(symbols, s)
		}
		bySymbol, err := e.crypto.PricesBySymbols(ctx, symbols, SupportedCurrencies)
		if err != nil {
			return out, err
		}
		for symbol, prices := range bySymbol {
			out.BySymbol[QuoteKey(symbol)] = prices
		}
	}

	if len(addressSet) > 0 {
		addresses := make([]string, 0, len(addressSet))
		for a := range addressSet {
			addresses = append(addresses, a)
		}
		byAddress, err := e.crypto.PricesByAddresses(ctx, addresses, SupportedCurrencies)
		if err != nil {
			return out, err
		}
		for addr, prices := range byAddress {
			out.ByAddress[addr] = prices
		}
	}

	return out, nil
}

// persist saves the matrix when forced or when the storage refresh interval
// elapsed since the last durable save. Failures are logged and ignored: the
// in-memory matrix remains authoritative.
func (e *RateEngine) persist(ctx context.Context, force bool) {
	if e.matrix == nil {
		return
	}

	if !force {
		saved, err := e.storage.LastSaved(ctx)
		if err == nil && !saved.IsZero() && e.now().Sub(saved) < storageRefreshInterval {
			return
		}
	}

	if err := e.storage.Save(ctx, e.matrix); err != nil {
		log.Printf("could not persist exchange rates: %v", err)
	}
}
