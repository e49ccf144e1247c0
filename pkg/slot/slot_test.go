package slot

import "testing"

func TestLabelRoundTrip(t *testing.T) {
	for n := First; n <= Last; n++ {
		label := Label(n)
		if label == NotFound {
			t.Fatalf("slot %d: unexpected sentinel label", n)
		}

		back, ok := SlotForLabel(label)
		if !ok {
			t.Fatalf("slot %d: reverse lookup of %q failed", n, label)
		}
		if back != n {
			t.Errorf("slot %d: round-tripped to %d via %q", n, back, label)
		}
	}
}

func TestLabelUnknownSlots(t *testing.T) {
	for _, n := range []int{0, 10, -3, 100} {
		if got := Label(n); got != NotFound {
			t.Errorf("Label(%d) = %q, want %q", n, got, NotFound)
		}
		if Exists(n) {
			t.Errorf("Exists(%d) = true, want false", n)
		}
		if _, _, ok := Components(n); ok {
			t.Errorf("Components(%d) ok = true, want false", n)
		}
	}
}

func TestComponentsMatchGrid(t *testing.T) {
	cases := []struct {
		slot   int
		hour   int
		minute int
	}{
		{1, 18, 0},
		{2, 18, 30},
		{5, 20, 0},
		{9, 22, 0},
	}

	for _, tc := range cases {
		h, m, ok := Components(tc.slot)
		if !ok {
			t.Fatalf("Components(%d) not ok", tc.slot)
		}
		if h != tc.hour || m != tc.minute {
			t.Errorf("Components(%d) = %02d:%02d, want %02d:%02d", tc.slot, h, m, tc.hour, tc.minute)
		}
	}
}

func TestAllIsOrderedAndComplete(t *testing.T) {
	entries := All()
	if len(entries) != 9 {
		t.Fatalf("expected 9 entries, got %d", len(entries))
	}

	for i, e := range entries {
		want := First + i
		if e.Slot != want {
			t.Errorf("entry %d: slot %d, want %d", i, e.Slot, want)
		}
		if e.Label != Label(want) {
			t.Errorf("entry %d: label %q, want %q", i, e.Label, Label(want))
		}
	}
}

func TestSpan(t *testing.T) {
	span := Span(5)
	if len(span) != SpanLength {
		t.Fatalf("span length %d, want %d", len(span), SpanLength)
	}
	for i, s := range span {
		if s != 5+i {
			t.Errorf("span[%d] = %d, want %d", i, s, 5+i)
		}
	}
}
