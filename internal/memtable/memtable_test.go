package memtable

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func newTestTable(t *testing.T) *Table[string] {
	t.Helper()
	table, err := New[string](context.Background(), &Config{Logger: zap.NewExample().Sugar()})
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestTableInsertGet(t *testing.T) {
	table := newTestTable(t)

	if err := table.Insert("b", "2"); err != nil {
		t.Fatal(err)
	}
	if err := table.Insert("a", "1"); err != nil {
		t.Fatal(err)
	}

	v, ok := table.Get("a")
	if !ok || v != "1" {
		t.Fatalf("got (%q, %v), want (1, true)", v, ok)
	}

	if _, ok := table.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestTableInsertOverwritesExistingKey(t *testing.T) {
	table := newTestTable(t)

	if err := table.Insert("a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := table.Insert("a", "2"); err != nil {
		t.Fatal(err)
	}

	if v, _ := table.Get("a"); v != "2" {
		t.Fatalf("got %q, want %q", v, "2")
	}
	if n := table.Len(); n != 1 {
		t.Fatalf("got len %d, want 1", n)
	}
}

func TestTableTakeDetachesAndReturnsAscending(t *testing.T) {
	table := newTestTable(t)

	for _, k := range []string{"c", "a", "b"} {
		if err := table.Insert(k, k+"-value"); err != nil {
			t.Fatal(err)
		}
	}

	entries := table.Take()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	want := []string{"a", "b", "c"}
	for i, e := range entries {
		if e.Key != want[i] {
			t.Fatalf("entry %d: got key %q, want %q", i, e.Key, want[i])
		}
	}

	if n := table.Len(); n != 0 {
		t.Fatalf("table should be empty after Take, got len %d", n)
	}
}

func TestTableCloseRejectsFurtherOperations(t *testing.T) {
	table := newTestTable(t)

	if err := table.Insert("a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := table.Close(); err != nil {
		t.Fatal(err)
	}

	if err := table.Insert("b", "2"); err != ErrTableClosed {
		t.Fatalf("got %v, want ErrTableClosed", err)
	}
	if err := table.Close(); err != ErrTableClosed {
		t.Fatalf("double close should return ErrTableClosed, got %v", err)
	}
}
