package pysyntax_test

import (
	"sync"
	"testing"

	"hubportal/internal/pysyntax"
)

func TestCheckValidSources(t *testing.T) {
	t.Parallel()

	checker := pysyntax.NewChecker()
	sources := []string{
		"print('hi')",
		"",
		"x = 1\ny = x + 2\n",
		"from pybricks.hubs import PrimeHub\n\nhub = PrimeHub()\nhub.display.text('hi')\n",
		"def motor_run(speed):\n    if speed > 0:\n        return speed\n    return 0\n",
	}
	for _, source := range sources {
		result := checker.Check(source)
		if !result.Valid {
			t.Fatalf("expected valid source %q, got %+v", source, result)
		}
		if result.Line != 0 || result.Column != 0 || result.Error != "" {
			t.Fatalf("valid result should carry no location: %+v", result)
		}
	}
}

func TestCheckInvalidFirstLine(t *testing.T) {
	t.Parallel()

	result := pysyntax.NewChecker().Check("def f(:")
	if result.Valid {
		t.Fatal("expected invalid source")
	}
	if result.Line != 1 {
		t.Fatalf("expected line 1, got %d", result.Line)
	}
	if result.Error == "" {
		t.Fatal("expected error message")
	}
}

func TestCheckReportsLaterLine(t *testing.T) {
	t.Parallel()

	result := pysyntax.NewChecker().Check("x = 1\ny = 2\ndef broken(:\n")
	if result.Valid {
		t.Fatal("expected invalid source")
	}
	if result.Line != 3 {
		t.Fatalf("expected line 3, got %d (%+v)", result.Line, result)
	}
	if result.Column < 1 {
		t.Fatalf("expected 1-indexed column, got %d", result.Column)
	}
}

func TestCheckUnterminatedCall(t *testing.T) {
	t.Parallel()

	result := pysyntax.NewChecker().Check("print('hi'\n")
	if result.Valid {
		t.Fatal("expected invalid source")
	}
	if result.Line != 1 {
		t.Fatalf("expected line 1, got %d", result.Line)
	}
}

func TestCheckConcurrentUse(t *testing.T) {
	t.Parallel()

	checker := pysyntax.NewChecker()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if !checker.Check("print('hi')").Valid {
					t.Error("valid source reported invalid")
					return
				}
				if checker.Check("def f(:").Valid {
					t.Error("invalid source reported valid")
					return
				}
			}
		}()
	}
	wg.Wait()
}
