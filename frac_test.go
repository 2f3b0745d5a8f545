package abcfmt_test

import (
	"math/rand"
	"testing"

	"github.com/AntoineBalaine/abcfmt"
)

func TestFracAdd(t *testing.T) {
	tests := []struct {
		a, b, want abcfmt.Frac
	}{
		{abcfmt.NewFrac(1, 4), abcfmt.NewFrac(1, 4), abcfmt.NewFrac(1, 2)},
		{abcfmt.NewFrac(1, 8), abcfmt.NewFrac(1, 4), abcfmt.NewFrac(3, 8)},
		{abcfmt.NewFrac(2, 3), abcfmt.NewFrac(1, 6), abcfmt.NewFrac(5, 6)},
		{abcfmt.NewFrac(0, 1), abcfmt.NewFrac(3, 2), abcfmt.NewFrac(3, 2)},
	}
	for _, test := range tests {
		if got := test.a.Add(test.b); !got.Eq(test.want) {
			t.Errorf("%v + %v: got %v, expected %v", test.a, test.b, got, test.want)
		}
	}
}

func TestFracAddReduces(t *testing.T) {
	sum := abcfmt.NewFrac(0, 1)
	for i := 0; i < 1000; i++ {
		sum = sum.Add(abcfmt.NewFrac(1, 6))
	}
	if sum.Den > 6 {
		t.Errorf("repeated addition should keep the denominator bounded, got %v", sum)
	}
	if !sum.Eq(abcfmt.NewFrac(1000, 6)) {
		t.Errorf("got %v, expected 1000/6", sum)
	}
}

func TestFracAddCommutesAndAssociates(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := abcfmt.NewFrac(rnd.Intn(32), 1+rnd.Intn(16))
		b := abcfmt.NewFrac(rnd.Intn(32), 1+rnd.Intn(16))
		c := abcfmt.NewFrac(rnd.Intn(32), 1+rnd.Intn(16))
		if !a.Add(b).Eq(b.Add(a)) {
			t.Fatalf("%v + %v is not commutative", a, b)
		}
		if !a.Add(b).Add(c).Eq(a.Add(b.Add(c))) {
			t.Fatalf("(%v + %v) + %v is not associative", a, b, c)
		}
	}
}

func TestFracCmpTrichotomy(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		a := abcfmt.NewFrac(rnd.Intn(32), 1+rnd.Intn(16))
		b := abcfmt.NewFrac(rnd.Intn(32), 1+rnd.Intn(16))
		count := 0
		if a.Greater(b) {
			count++
		}
		if b.Greater(a) {
			count++
		}
		if a.Eq(b) {
			count++
		}
		if count != 1 {
			t.Fatalf("exactly one of >, < and == should hold for %v and %v, %d held", a, b, count)
		}
	}
}

func TestFracInfinite(t *testing.T) {
	if !abcfmt.Infinite.IsInf() {
		t.Fatal("Infinite should report IsInf")
	}
	finites := []abcfmt.Frac{
		abcfmt.NewFrac(0, 1),
		abcfmt.NewFrac(1, 8),
		abcfmt.NewFrac(1000000, 1),
	}
	for _, f := range finites {
		if !abcfmt.Infinite.Greater(f) {
			t.Errorf("Infinite should be greater than %v", f)
		}
		if f.Greater(abcfmt.Infinite) {
			t.Errorf("%v should not be greater than Infinite", f)
		}
	}
	if !abcfmt.Infinite.Eq(abcfmt.Infinite) {
		t.Error("Infinite should equal Infinite")
	}
	if abcfmt.Infinite.Eq(abcfmt.NewFrac(1, 1)) {
		t.Error("Infinite should not equal a finite value")
	}
	if !abcfmt.Infinite.Add(abcfmt.NewFrac(1, 4)).IsInf() {
		t.Error("Infinite plus a finite value should stay Infinite")
	}
}
