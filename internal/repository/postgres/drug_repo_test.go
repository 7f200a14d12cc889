package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

func TestBuildSearchFilters_Empty(t *testing.T) {
	t.Parallel()

	where, args, err := buildSearchFilters(domain.DrugSearch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if where != "" {
		t.Fatalf("expected empty clause, got %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildSearchFilters_Query(t *testing.T) {
	t.Parallel()

	where, args, err := buildSearchFilters(domain.DrugSearch{Query: "melox"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := " WHERE (name ILIKE $1 OR generic_name ILIKE $1 OR description ILIKE $1)"
	if where != want {
		t.Fatalf("clause mismatch:\n got  %q\n want %q", where, want)
	}
	if len(args) != 1 || args[0] != "%melox%" {
		t.Fatalf("args mismatch: %v", args)
	}
}

func TestBuildSearchFilters_NDC(t *testing.T) {
	t.Parallel()

	where, args, err := buildSearchFilters(domain.DrugSearch{NDC: "1234-5678"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if where != " WHERE ndc = $1" {
		t.Fatalf("clause mismatch: %q", where)
	}
	if len(args) != 1 || args[0] != "1234-5678" {
		t.Fatalf("args mismatch: %v", args)
	}
}

func TestBuildSearchFilters_Categorical(t *testing.T) {
	t.Parallel()

	where, args, err := buildSearchFilters(domain.DrugSearch{
		Filters: map[string]string{"species": "canine", "schedule": "II"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Clause order follows the allow-list, not map iteration order.
	want := " WHERE schedule = $1 AND species = $2"
	if where != want {
		t.Fatalf("clause mismatch:\n got  %q\n want %q", where, want)
	}
	if len(args) != 2 || args[0] != "II" || args[1] != "canine" {
		t.Fatalf("args mismatch: %v", args)
	}
}

func TestBuildSearchFilters_Combined(t *testing.T) {
	t.Parallel()

	where, args, err := buildSearchFilters(domain.DrugSearch{
		Query:   "pain",
		NDC:     "0000-0001",
		Filters: map[string]string{"dosage_form": "tablet", "manufacturer": "Zoetis"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := " WHERE (name ILIKE $1 OR generic_name ILIKE $1 OR description ILIKE $1)" +
		" AND ndc = $2 AND dosage_form = $3 AND manufacturer = $4"
	if where != want {
		t.Fatalf("clause mismatch:\n got  %q\n want %q", where, want)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %v", args)
	}
	if args[2] != "tablet" || args[3] != "Zoetis" {
		t.Fatalf("args out of order: %v", args)
	}
}

func TestBuildSearchFilters_UnknownField(t *testing.T) {
	t.Parallel()

	for _, field := range []string{"name", "password_hash", "id; DROP TABLE drugs"} {
		_, _, err := buildSearchFilters(domain.DrugSearch{Filters: map[string]string{field: "x"}})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("field %q: expected ErrInvalidArgument, got %v", field, err)
		}
	}
}

func TestDistinctValues_RejectsUnknownField(t *testing.T) {
	t.Parallel()

	// Validation happens before any SQL, so no connection is needed.
	repo := NewDrugRepo(nil)
	for _, field := range []string{"name", "email", ""} {
		_, err := repo.DistinctValues(context.Background(), field)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("field %q: expected ErrInvalidArgument, got %v", field, err)
		}
	}
}

func TestCategoricalAllowListConsistent(t *testing.T) {
	t.Parallel()

	if len(categoricalFields) != len(categoricalColumns) {
		t.Fatalf("allow-list slice and column map disagree: %d vs %d", len(categoricalFields), len(categoricalColumns))
	}
	for _, field := range categoricalFields {
		if _, ok := categoricalColumns[field]; !ok {
			t.Fatalf("field %q missing from column map", field)
		}
	}
}
