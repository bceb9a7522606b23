package cost

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// wordEncoder counts whitespace-separated words.
type wordEncoder struct{}

func (wordEncoder) Count(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func TestEstimateTokens(t *testing.T) {
	est := EstimateTokens(1_000_000, "gpt-4o-mini")
	if math.Abs(est.InputCost-0.15) > 1e-9 {
		t.Errorf("InputCost = %v, want 0.15", est.InputCost)
	}
	if math.Abs(est.OutputCost-0.60) > 1e-9 {
		t.Errorf("OutputCost = %v, want 0.60", est.OutputCost)
	}
	if math.Abs(est.TotalCost-0.75) > 1e-9 {
		t.Errorf("TotalCost = %v, want 0.75", est.TotalCost)
	}
}

func TestEstimateTokensUnknownModelFallsBack(t *testing.T) {
	known := EstimateTokens(500_000, "gpt-4o-mini")
	unknown := EstimateTokens(500_000, "some-future-model")
	if unknown.TotalCost != known.TotalCost {
		t.Errorf("unknown model cost = %v, want fallback %v", unknown.TotalCost, known.TotalCost)
	}
}

func TestEstimateFolder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.md", "one two three")
	write("b.sgml", "four five")
	write("notes.txt", "ignored entirely")

	est, err := EstimateFolder(context.Background(), dir, "gpt-4o-mini", wordEncoder{})
	if err != nil {
		t.Fatalf("EstimateFolder: %v", err)
	}
	if est.Tokens != 5 {
		t.Errorf("Tokens = %d, want 5", est.Tokens)
	}
	if est.Files != 2 {
		t.Errorf("Files = %d, want 2", est.Files)
	}
	if len(est.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", est.Skipped)
	}
}

func TestEstimateFolderCancelled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	est, err := EstimateFolder(ctx, dir, "gpt-4o-mini", wordEncoder{})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	// Partial estimate is still returned.
	if est.Model != "gpt-4o-mini" {
		t.Errorf("partial estimate missing model: %+v", est)
	}
}
