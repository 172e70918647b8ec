package safe

import (
	"math"
)

// Overflow-checked int64 arithmetic for the simulated clock and sequence
// counters. Engine time is int64 unix seconds that only ever moves forward;
// silent wraparound would corrupt every maturity comparison, so these panic
// instead.

// Add performs int64 addition and panics on overflow/underflow.
func Add(a, b int64) int64 {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		panic("CORE_SAFE_ADD_OVERFLOW")
	}
	return a + b
}

// Sub performs int64 subtraction and panics on overflow/underflow.
func Sub(a, b int64) int64 {
	if (b > 0 && a < math.MinInt64+b) || (b < 0 && a > math.MaxInt64+b) {
		panic("CORE_SAFE_SUB_OVERFLOW")
	}
	return a - b
}

// Mul performs int64 multiplication and panics on overflow/underflow.
func Mul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	res := a * b
	if res/b != a {
		panic("CORE_SAFE_MUL_OVERFLOW")
	}
	return res
}
