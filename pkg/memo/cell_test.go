package memo

import (
	"context"
	"errors"
	"testing"
)

func TestGet_FetchesOnce(t *testing.T) {
	var cell Cell[string]
	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "value", nil
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cell.Get(ctx, "field", fetch)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != "value" {
			t.Errorf("Expected %q, got %q", "value", got)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 fetch, got %d", calls)
	}
}

func TestGet_FailureIsNotMemoized(t *testing.T) {
	var cell Cell[int]
	boom := errors.New("boom")
	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 42, nil
	}
	ctx := context.Background()

	if _, err := cell.Get(ctx, "field", fetch); !errors.Is(err, boom) {
		t.Fatalf("Expected fetch error, got %v", err)
	}
	if cell.Populated() {
		t.Error("Failed fetch must leave the cell empty")
	}

	got, err := cell.Get(ctx, "field", fetch)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if got != 42 {
		t.Errorf("Expected 42 after retry, got %d", got)
	}
	if calls != 2 {
		t.Errorf("Expected 2 fetches, got %d", calls)
	}
}

func TestGet_MemoizesZeroValue(t *testing.T) {
	var cell Cell[string]
	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "", nil
	}
	ctx := context.Background()

	// An empty result is a valid result and must be cached like any other.
	for i := 0; i < 2; i++ {
		if _, err := cell.Get(ctx, "field", fetch); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 fetch, got %d", calls)
	}
	if !cell.Populated() {
		t.Error("Cell should be populated after a successful fetch")
	}
}
