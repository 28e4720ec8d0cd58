package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extension lookup test uses a shell script")
	}

	tempDir := t.TempDir()

	// A fake avoir-hello extension that succeeds.
	script := "#!/bin/sh\nexit 0\n"
	if err := os.WriteFile(filepath.Join(tempDir, "avoir-hello"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	// And one that fails with a specific code.
	script = "#!/bin/sh\nexit 3\n"
	if err := os.WriteFile(filepath.Join(tempDir, "avoir-boom"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PATH", tempDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	tests := []struct {
		sub      string
		found    bool
		exitCode int
	}{
		{sub: "hello", found: true, exitCode: 0},
		{sub: "boom", found: true, exitCode: 3},
		{sub: "nosuchextension", found: false, exitCode: 0},
	}
	for _, tc := range tests {
		t.Run(tc.sub, func(t *testing.T) {
			found, code := RunExtension(tc.sub, nil)
			if found != tc.found || code != tc.exitCode {
				t.Errorf("RunExtension(%q) = (%v, %d), want (%v, %d)", tc.sub, found, code, tc.found, tc.exitCode)
			}
		})
	}
}
