package sqlite

import (
	"path/filepath"
	"testing"
)

func TestDriverInfo(t *testing.T) {
	if DriverName() == "" {
		t.Error("DriverName is empty")
	}
	switch DriverType() {
	case "purego":
		if IsCGO() {
			t.Error("IsCGO = true for purego driver")
		}
	case "cgo":
		if !IsCGO() {
			t.Error("IsCGO = false for cgo driver")
		}
	default:
		t.Errorf("unexpected DriverType %q", DriverType())
	}
}

func TestOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE t (n INTEGER)"); err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO t (n) VALUES (42)"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	db.Close()

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly failed: %v", err)
	}
	defer ro.Close()

	var n int
	if err := ro.QueryRow("SELECT n FROM t").Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if n != 42 {
		t.Errorf("n = %d, want 42", n)
	}
}
