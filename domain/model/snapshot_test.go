package model

import (
	"errors"
	"testing"
)

func TestNewSnapshot(t *testing.T) {
	t.Parallel()

	header := NewHeader([]string{"id", "name"})
	records := []Record{
		NewRecord([]string{"1", "Alice"}),
		NewRecord([]string{"2", "Bob"}),
	}

	s, err := NewSnapshot("users.csv", header, []string{NativeInt64, NativeObject}, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Source() != "users.csv" {
		t.Errorf("expected source users.csv, got %s", s.Source())
	}
	if s.NumRows() != 2 || s.NumColumns() != 2 {
		t.Errorf("expected 2x2 snapshot, got %dx%d", s.NumRows(), s.NumColumns())
	}
	if s.Cell(1, 1) != "Bob" {
		t.Errorf("expected Bob, got %s", s.Cell(1, 1))
	}
	if s.ColumnIndex("name") != 1 || s.ColumnIndex("missing") != -1 {
		t.Error("unexpected ColumnIndex result")
	}

	// accessors hand out copies
	cols := s.Columns()
	cols[0] = "changed"
	if s.Columns()[0] != "id" {
		t.Error("Columns must return a copy")
	}
	row := s.Row(0)
	row[0] = "changed"
	if s.Cell(0, 0) != "1" {
		t.Error("Row must return a copy")
	}
}

func TestNewSnapshot_DefaultTypes(t *testing.T) {
	t.Parallel()

	s, err := NewSnapshot("x", NewHeader([]string{"a", "b"}), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, typ := range s.NativeTypes() {
		if typ != NativeObject {
			t.Errorf("column %d: expected %s, got %s", i, NativeObject, typ)
		}
	}
	if !s.IsEmpty() {
		t.Error("expected empty snapshot")
	}
}

func TestNewSnapshot_Errors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate column", func(t *testing.T) {
		t.Parallel()
		_, err := NewSnapshot("x", NewHeader([]string{"a", " a"}), nil, nil)
		if !errors.Is(err, ErrDuplicateColumnName) {
			t.Errorf("expected ErrDuplicateColumnName, got %v", err)
		}
	})

	t.Run("ragged row", func(t *testing.T) {
		t.Parallel()
		_, err := NewSnapshot("x", NewHeader([]string{"a", "b"}), nil, []Record{{"1"}})
		if !errors.Is(err, ErrRaggedRow) {
			t.Errorf("expected ErrRaggedRow, got %v", err)
		}
	})

	t.Run("type count mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := NewSnapshot("x", NewHeader([]string{"a", "b"}), []string{NativeInt64}, nil)
		if err == nil {
			t.Error("expected error for mismatched native types")
		}
	})
}

func TestSnapshot_WithGeneration(t *testing.T) {
	t.Parallel()

	s, err := NewSnapshot("x", NewHeader([]string{"a"}), nil, []Record{{"1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2 := s.WithGeneration(7)
	if s.Generation() != 0 {
		t.Errorf("original generation changed to %d", s.Generation())
	}
	if s2.Generation() != 7 {
		t.Errorf("expected generation 7, got %d", s2.Generation())
	}
	if s2.Cell(0, 0) != "1" {
		t.Error("expected rows to be shared")
	}
}
