package lockfile

import (
	"os"
	"path/filepath"
	"testing"
)

func newLock() *LockFile {
	return &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
	}
}

func TestHashDeterministic(t *testing.T) {
	h1 := Hash("你好")
	h2 := Hash("你好")
	if h1 != h2 {
		t.Errorf("Hash not deterministic: %s != %s", h1, h2)
	}
	if h3 := Hash("再见"); h1 == h3 {
		t.Errorf("Hash collision: %s == %s", h1, h3)
	}
}

func TestLoadNonExistent(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error for non-existent file: %v", err)
	}
	if lf.Version != Version {
		t.Errorf("Version = %d, want %d", lf.Version, Version)
	}
	if len(lf.Checksums) != 0 {
		t.Errorf("Checksums not empty: %v", lf.Checksums)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LockFileName), []byte("checksums: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("Load should fail on malformed YAML")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	lf, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	lf.Update("en/app.php", "GREETING", "你好")
	lf.Update("en/app.php", "FAREWELL", "再见")
	lf.Update("ja/app.php", "GREETING", "你好")

	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(dir, LockFileName)
	if lf.Path() != path {
		t.Errorf("Path() = %q, want %q", lf.Path(), path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Lock file not created at %s", path)
	}

	lf2, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}

	targets, keys := lf2.Stats()
	if targets != 2 {
		t.Errorf("targets = %d, want 2", targets)
	}
	if keys != 3 {
		t.Errorf("keys = %d, want 3", keys)
	}
	if lf2.IsStale("en/app.php", "GREETING", "你好") {
		t.Error("reloaded checksum should match")
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := newLock().Save(); err == nil {
		t.Fatal("Save without path should fail")
	}
}

func TestIsStale(t *testing.T) {
	lf := newLock()

	if lf.IsStale("en/app.php", "GREETING", "你好") {
		t.Error("unrecorded key should not be stale")
	}

	lf.Update("en/app.php", "GREETING", "你好")
	if lf.IsStale("en/app.php", "GREETING", "你好") {
		t.Error("unchanged source should not be stale")
	}
	if !lf.IsStale("en/app.php", "GREETING", "您好") {
		t.Error("changed source should be stale")
	}
	if lf.IsStale("ja/app.php", "GREETING", "您好") {
		t.Error("other target has no record and should not be stale")
	}

	var nilLock *LockFile
	if nilLock.IsStale("en/app.php", "GREETING", "x") {
		t.Error("nil lock should never report stale")
	}
}

func TestTargetKey(t *testing.T) {
	if got := TargetKey("en", "app.php"); got != "en/app.php" {
		t.Errorf("TargetKey = %q, want %q", got, "en/app.php")
	}
}

func TestClean(t *testing.T) {
	lf := newLock()

	lf.Update("en/app.php", "A", "a")
	lf.Update("en/app.php", "B", "b")
	lf.Update("en/app.php", "DELETED", "d")

	lf.Clean("en/app.php", []string{"A", "B"})

	if _, ok := lf.Checksums["en/app.php"]["DELETED"]; ok {
		t.Error("DELETED should be removed by Clean")
	}
	if _, ok := lf.Checksums["en/app.php"]["A"]; !ok {
		t.Error("A should still be tracked")
	}

	lf.Clean("en/app.php", nil)
	if targets, _ := lf.Stats(); targets != 0 {
		t.Errorf("targets after cleaning everything = %d, want 0", targets)
	}
}

func TestTargets(t *testing.T) {
	lf := newLock()

	lf.Update("ja/app.php", "A", "a")
	lf.Update("vi/app.php", "A", "a")
	lf.Update("ar/app.php", "A", "a")

	targets := lf.Targets()
	expected := []string{"ar/app.php", "ja/app.php", "vi/app.php"}
	if len(targets) != len(expected) {
		t.Fatalf("targets len = %d, want %d", len(targets), len(expected))
	}
	for i, want := range expected {
		if targets[i] != want {
			t.Errorf("targets[%d] = %q, want %q", i, targets[i], want)
		}
	}
}

func TestSummary(t *testing.T) {
	lf := newLock()

	if lf.Summary() != "empty" {
		t.Errorf("empty summary = %q, want %q", lf.Summary(), "empty")
	}

	lf.Update("en/app.php", "A", "a")
	lf.Update("ja/app.php", "A", "a")
	want := "2 files, 2 keys (en/app.php: 1 keys, ja/app.php: 1 keys)"
	if got := lf.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
