package ticker

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestSlot(t *testing.T) {
	cases := []struct {
		symbol string
		want   int
	}{
		{"", 0},
		{"A", 65},
		{"AAPL", 65 + 65 + 80 + 76},
		{"ONYM", 79 + 78 + 89 + 77},
		{"é", 233},
		{"\xff", 0xFFFD % MaxTickers},
		{"A\xff\xfe", (65 + 2*0xFFFD) % MaxTickers},
		{strings.Repeat("z", 20), (20 * 122) % MaxTickers},
	}

	for _, c := range cases {
		if got := Slot(c.symbol); got != c.want {
			t.Errorf("Slot(%q) = %d, want %d", c.symbol, got, c.want)
		}
	}
}

func TestSlotIsOrderIndependent(t *testing.T) {
	if Slot("AB") != Slot("BA") {
		t.Fatal("AB and BA should collide")
	}
	if Slot("MSFT") != Slot("TFSM") {
		t.Fatal("permutations should collide")
	}
}

func TestValid(t *testing.T) {
	for _, slot := range []int{0, 1, MaxTickers - 1} {
		if !Valid(slot) {
			t.Errorf("slot %d should be valid", slot)
		}
	}
	for _, slot := range []int{-1, MaxTickers, MaxTickers + 7} {
		if Valid(slot) {
			t.Errorf("slot %d should be invalid", slot)
		}
	}
}

func TestSlotAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		symbol := rapid.String().Draw(t, "symbol")
		if s := Slot(symbol); !Valid(s) {
			t.Fatalf("Slot(%q) = %d out of range", symbol, s)
		}
	})
}
