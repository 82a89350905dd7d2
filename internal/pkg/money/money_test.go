package money

import (
	"errors"
	"math"
	"testing"
)

func TestFromInt64(t *testing.T) {
	if _, err := FromInt64(-1); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	c, err := FromInt64(999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Int64() != 999 {
		t.Fatalf("expected 999, got %d", c.Int64())
	}
}

func TestFromInt64RejectsOversizedAmounts(t *testing.T) {
	if _, err := FromInt64(int64(MaxAmount) + 1); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
	if _, err := FromInt64(math.MaxInt64); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge for MaxInt64, got %v", err)
	}
	c, err := FromInt64(int64(MaxAmount))
	if err != nil {
		t.Fatalf("unexpected error at the cap: %v", err)
	}
	if got := c.PercentFloor(100); got != MaxAmount {
		t.Fatalf("PercentFloor at the cap must not overflow: got %d", got)
	}
	if got := c.PercentFloor(99); got <= 0 {
		t.Fatalf("PercentFloor overflowed at the cap: got %d", got)
	}
}

func TestSubRejectsNegativeResult(t *testing.T) {
	a := Cents(100)
	if _, err := a.Sub(Cents(101)); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	got, err := a.Sub(Cents(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestPercentFloor(t *testing.T) {
	tests := []struct {
		amount Cents
		pct    int
		want   Cents
	}{
		{amount: 999, pct: 5, want: 49},
		{amount: 900, pct: 20, want: 180},
		{amount: 999, pct: 0, want: 0},
		{amount: 1, pct: 50, want: 0},
		{amount: 100, pct: 100, want: 100},
	}
	for _, tt := range tests {
		if got := tt.amount.PercentFloor(tt.pct); got != tt.want {
			t.Fatalf("PercentFloor(%d, %d) = %d, want %d", tt.amount, tt.pct, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if got := Cents(999).String(); got != "9.99" {
		t.Fatalf("expected 9.99, got %q", got)
	}
	if got := Cents(5).String(); got != "0.05" {
		t.Fatalf("expected 0.05, got %q", got)
	}
}
