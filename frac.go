package abcfmt

import "fmt"

// Frac is an exact musical time value, expressed as a fraction of a whole
// note. All alignment arithmetic uses Fracs so that tuplets and dotted
// rhythms never accumulate floating point error. The zero denominator is
// reserved for the Infinite sentinel; every finite Frac keeps Den > 0.
type Frac struct {
	Num int
	Den int
}

// Infinite is the duration of an unmeasured multi-measure rest. It compares
// greater than every finite value and never participates in addition; callers
// record the rest's position and skip advancing time instead.
var Infinite = Frac{Num: 1, Den: 0}

func NewFrac(num, den int) Frac {
	return Frac{Num: num, Den: den}.reduce()
}

func (f Frac) IsInf() bool {
	return f.Den == 0
}

func (f Frac) IsZero() bool {
	return !f.IsInf() && f.Num == 0
}

// Add returns f+g, reduced by the greatest common divisor so that repeated
// additions over a long bar keep the numerator bounded.
func (f Frac) Add(g Frac) Frac {
	if f.IsInf() || g.IsInf() {
		return Infinite
	}
	return Frac{Num: f.Num*g.Den + g.Num*f.Den, Den: f.Den * g.Den}.reduce()
}

// Mul returns f*g, reduced.
func (f Frac) Mul(g Frac) Frac {
	if f.IsInf() || g.IsInf() {
		return Infinite
	}
	return Frac{Num: f.Num * g.Num, Den: f.Den * g.Den}.reduce()
}

// Cmp compares by cross-multiplication, never by division: -1 if f < g, 0 if
// equal, 1 if f > g. Infinite is greater than every finite value and equal
// only to another Infinite.
func (f Frac) Cmp(g Frac) int {
	switch {
	case f.IsInf() && g.IsInf():
		return 0
	case f.IsInf():
		return 1
	case g.IsInf():
		return -1
	}
	l, r := f.Num*g.Den, g.Num*f.Den
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func (f Frac) Eq(g Frac) bool {
	return f.Cmp(g) == 0
}

func (f Frac) Greater(g Frac) bool {
	return f.Cmp(g) > 0
}

func (f Frac) String() string {
	if f.IsInf() {
		return "inf"
	}
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

func (f Frac) reduce() Frac {
	if f.Den == 0 {
		return Infinite
	}
	if f.Den < 0 {
		f.Num, f.Den = -f.Num, -f.Den
	}
	if d := gcd(f.Num, f.Den); d > 1 {
		f.Num /= d
		f.Den /= d
	}
	return f
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
