package examples_test

import (
	"errors"
	"sort"
	"testing"

	"hubportal/internal/examples"
	"hubportal/internal/pysyntax"
	"hubportal/internal/services"
)

func TestListIsOrderedAndComplete(t *testing.T) {
	t.Parallel()

	listed := examples.List()
	if len(listed) == 0 {
		t.Fatal("catalog is empty")
	}
	sorted := sort.SliceIsSorted(listed, func(i, j int) bool {
		if listed[i].Category != listed[j].Category {
			return listed[i].Category < listed[j].Category
		}
		return listed[i].Name < listed[j].Name
	})
	if !sorted {
		t.Fatal("catalog is not ordered by category then name")
	}

	seen := map[string]bool{}
	for _, example := range listed {
		if example.ID == "" || example.Name == "" || example.Code == "" {
			t.Fatalf("incomplete example %+v", example)
		}
		if seen[example.ID] {
			t.Fatalf("duplicate example id %s", example.ID)
		}
		seen[example.ID] = true
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	example, err := examples.Get("hello-hub")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if example.Name != "Hello Hub" {
		t.Fatalf("unexpected example %+v", example)
	}

	_, err = examples.Get("no-such-example")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

// Every shipped example must pass the same syntax gate the editor applies.
func TestCatalogCodeParses(t *testing.T) {
	t.Parallel()

	checker := pysyntax.NewChecker()
	for _, example := range examples.List() {
		result := checker.Check(example.Code)
		if !result.Valid {
			t.Fatalf("example %s has invalid code: %s (line %d)", example.ID, result.Error, result.Line)
		}
	}
}
