package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirScratch runs the test from an empty directory with a local
// _workspace, so runtime files never touch the real workspace.
func chdirScratch(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })

	if err := os.Mkdir("_workspace", 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestBootstrap_FailedInitReleasesLock(t *testing.T) {
	chdirScratch(t)

	// TESTNET with no credentials fails after the lock is taken.
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")
	t.Setenv("BINANCE_BOT_MODE", "TESTNET")

	err := NewBootstrap().Initialize("")
	if err == nil {
		t.Fatal("expected initialization to fail without credentials")
	}
	if !strings.Contains(err.Error(), "credentials") {
		t.Fatalf("unexpected failure: %v", err)
	}

	lockPath := filepath.Join("_workspace", "instance.lock")
	if _, statErr := os.Stat(lockPath); !os.IsNotExist(statErr) {
		t.Fatalf("lock file should be released after failed init: %v", statErr)
	}

	// A retry must hit the same credentials error, not a stale lock.
	err = NewBootstrap().Initialize("")
	if err == nil {
		t.Fatal("expected retry to fail without credentials")
	}
	if strings.Contains(err.Error(), "another instance") {
		t.Fatalf("retry refused by a stale lock: %v", err)
	}
}

func TestBootstrap_DryRunInitAndShutdown(t *testing.T) {
	chdirScratch(t)

	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")
	t.Setenv("BINANCE_BOT_MODE", "DRYRUN")

	b := NewBootstrap()
	if err := b.Initialize(""); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if b.Session == nil || b.Session.Mode != "DRYRUN" {
		t.Fatalf("unexpected session: %+v", b.Session)
	}
	b.Shutdown()

	// Shutdown released the lock, so a fresh bootstrap starts cleanly.
	b2 := NewBootstrap()
	if err := b2.Initialize(""); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	b2.Shutdown()
}
