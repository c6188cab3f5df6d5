package service

import (
	"context"
	"strings"
	"testing"

	"github.com/forgo/feast/api/internal/model"
)

type mockCartAggregator struct {
	cartLinesFunc func(ctx context.Context, userID string) ([]model.CartLine, error)
}

func (m *mockCartAggregator) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	if m.cartLinesFunc != nil {
		return m.cartLinesFunc(ctx, userID)
	}
	return nil, nil
}

func TestCartLines_SortedByName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	carts := &mockCartAggregator{
		cartLinesFunc: func(ctx context.Context, userID string) ([]model.CartLine, error) {
			return []model.CartLine{
				{Name: "Sugar", MeasurementUnit: "g", Total: 50},
				{Name: "Flour", MeasurementUnit: "g", Total: 500},
				{Name: "Milk", MeasurementUnit: "ml", Total: 200},
			}, nil
		},
	}
	svc := NewCartService(carts)

	lines, err := svc.Lines(ctx, "user:me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []string{"Flour", "Milk", "Sugar"}
	for i, name := range want {
		if lines[i].Name != name {
			t.Errorf("line %d: expected %s, got %s", i, name, lines[i].Name)
		}
	}
}

func TestCartRender_SummedAmounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Flour 200 from one recipe and 300 from another arrive from the
	// store already summed to 500.
	carts := &mockCartAggregator{
		cartLinesFunc: func(ctx context.Context, userID string) ([]model.CartLine, error) {
			return []model.CartLine{
				{Name: "Sugar", MeasurementUnit: "g", Total: 50},
				{Name: "Flour", MeasurementUnit: "g", Total: 500},
			}, nil
		},
	}
	svc := NewCartService(carts)

	text, err := svc.Render(ctx, "user:me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Shopping list\n\nFlour, 500 g\nSugar, 50 g\n"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}

func TestCartRender_FlourBeforeSugar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	carts := &mockCartAggregator{
		cartLinesFunc: func(ctx context.Context, userID string) ([]model.CartLine, error) {
			return []model.CartLine{
				{Name: "Sugar", MeasurementUnit: "g", Total: 50},
				{Name: "Flour", MeasurementUnit: "g", Total: 500},
			}, nil
		},
	}
	svc := NewCartService(carts)

	text, err := svc.Render(ctx, "user:me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flour := strings.Index(text, "Flour")
	sugar := strings.Index(text, "Sugar")
	if flour == -1 || sugar == -1 {
		t.Fatalf("expected both ingredients in output: %q", text)
	}
	if flour > sugar {
		t.Error("expected Flour before Sugar")
	}
}

func TestCartRender_EmptyCart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewCartService(&mockCartAggregator{})

	text, err := svc.Render(ctx, "user:me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Shopping list\n\n" {
		t.Errorf("expected header only, got %q", text)
	}
}
