//go:build linux

package gpio

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestChipCandidates_ScansDevDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"gpiochip0", "gpiochip1", "i2c-0", "null"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	old := devDir
	devDir = dir
	t.Cleanup(func() { devDir = old })

	got := chipCandidates("")
	sort.Strings(got)
	want := []string{filepath.Join(dir, "gpiochip0"), filepath.Join(dir, "gpiochip1")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("candidates=%v want %v", got, want)
	}

	if got := chipCandidates("/dev/gpiochip4"); len(got) != 1 || got[0] != "/dev/gpiochip4" {
		t.Fatalf("explicit chip candidates=%v", got)
	}
}

func TestOpen_DisabledIsError(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatalf("expected error opening a disabled line")
	}
}
