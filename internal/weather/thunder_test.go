package weather

import "testing"

func TestThunderStrikeCycle(t *testing.T) {
	th := newThunder(0.6, [4]string{"a", "b", "c", "d"})
	src := &fixedSource{values: []int{3, 41}}

	if s := th.update(12, src); s != "" || th.strength() != 0 {
		t.Fatalf("expected no strike below 50%%, got sound=%q strength=%v", s, th.strength())
	}
	th.update(0.5, src)
	if !approx(th.strength(), 1) {
		t.Fatalf("expected full strength on strike, got %v", th.strength())
	}
	if s := th.update(0.3, src); s != "d" {
		t.Fatalf("expected delayed sound d, got %q", s)
	}
	if s := th.update(0.1, src); s != "" {
		t.Fatalf("expected one sound per strike, got %q", s)
	}
	th.update(0.3, src)
	if th.strength() != 0 {
		t.Fatalf("expected flash to end, got %v", th.strength())
	}
	if th.chance != 0 || th.chanceNeeded != 42 {
		t.Fatalf("expected chance reset with needed 42, got %v/%v", th.chance, th.chanceNeeded)
	}

	th.reset()
	if th.chanceNeeded != 50 || th.flash != 0 {
		t.Fatalf("expected reset state, got %+v", th)
	}
}
