package driver

import (
	"path/filepath"
	"testing"
)

func TestLockfileUpsert(t *testing.T) {
	lock := NewLockfile("geometry", "l5-cli 0.1.0-dev")

	entry := &LockedPackage{Name: "prelude", Version: "0.3.0", Source: "path:../prelude", Checksum: "abc"}
	if !lock.Upsert(entry) {
		t.Fatalf("first insert must report a change")
	}
	if lock.Upsert(&LockedPackage{Name: "prelude", Version: "0.3.0", Source: "path:../prelude", Checksum: "abc"}) {
		t.Fatalf("identical upsert must report no change")
	}
	if !lock.Upsert(&LockedPackage{Name: "prelude", Version: "0.4.0", Source: "path:../prelude", Checksum: "def"}) {
		t.Fatalf("changed entry must report a change")
	}

	got, ok := lock.FindPackage("prelude")
	if !ok || got.Version != "0.4.0" {
		t.Fatalf("unexpected entry %#v", got)
	}
	if len(lock.Packages) != 1 {
		t.Fatalf("upsert must replace, not append: %d entries", len(lock.Packages))
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.lock")

	lock := NewLockfile("geometry", "l5-cli 0.1.0-dev")
	lock.Upsert(&LockedPackage{Name: "shapes", Version: "2.0.0", Source: "git:https://example.com/shapes.git", Checksum: "f00d"})
	lock.Upsert(&LockedPackage{Name: "prelude", Version: "0.3.0", Source: "path:../prelude", Checksum: "abc"})

	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile returned error: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile returned error: %v", err)
	}
	if loaded.Root != "geometry" || loaded.Tool != "l5-cli 0.1.0-dev" {
		t.Fatalf("unexpected metadata %q %q", loaded.Root, loaded.Tool)
	}
	if loaded.Generated == "" {
		t.Fatalf("generated timestamp must survive the round trip")
	}
	if len(loaded.Packages) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded.Packages))
	}
	// Entries are kept sorted by name.
	if loaded.Packages[0].Name != "prelude" || loaded.Packages[1].Name != "shapes" {
		t.Fatalf("unexpected order %q, %q", loaded.Packages[0].Name, loaded.Packages[1].Name)
	}
	if loaded.Packages[1].Checksum != "f00d" {
		t.Fatalf("unexpected checksum %q", loaded.Packages[1].Checksum)
	}
}

func TestLoadLockfileMissing(t *testing.T) {
	if _, err := LoadLockfile(filepath.Join(t.TempDir(), "package.lock")); err == nil {
		t.Fatalf("expected error for missing lockfile")
	}
}
