package core

import "golang.org/x/exp/constraints"

// between reports whether lo <= v <= hi
func between[T constraints.Integer](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// selector converts an ASCII digit into a number in [lo, hi]
func selector[T constraints.Unsigned](c byte, lo, hi T) (T, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}
	v := T(c - '0')
	return v, between(v, lo, hi)
}
