package penalty

// MaxCost is the ceiling for every derived cost. Sums and products that
// would exceed it are clamped rather than wrapped.
const MaxCost int64 = 9_000_000_000_000_000_000

// SatAdd adds non-negative costs, clamping at MaxCost.
func SatAdd(a, b int64) int64 {
	if a >= MaxCost-b {
		return MaxCost
	}
	return a + b
}

// SatMul multiplies non-negative costs, clamping at MaxCost.
func SatMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > MaxCost/b {
		return MaxCost
	}
	return a * b
}

// Pow computes base^exp for non-negative values, clamping at MaxCost.
func Pow(base int64, exp int) int64 {
	result := int64(1)
	for i := 0; i < exp; i++ {
		result = SatMul(result, base)
		if result == MaxCost {
			return MaxCost
		}
	}
	return result
}

// Cascade builds a cost table of length n where entries below offset are
// zero and entry k >= offset is base*3^(k-offset).
func Cascade(base int64, n, offset int) []int64 {
	t := make([]int64, n)
	for k := offset; k < n; k++ {
		if k < 0 {
			continue
		}
		t[k] = SatMul(base, Pow(3, k-offset))
	}
	return t
}

// Deltas returns the marginal cost of moving from entry k-1 to k; entry 0
// is the table's first value. Tables are assumed non-decreasing.
func Deltas(t []int64) []int64 {
	d := make([]int64, len(t))
	for k := range t {
		if k == 0 {
			d[k] = t[0]
			continue
		}
		diff := t[k] - t[k-1]
		if diff < 0 {
			diff = 0
		}
		d[k] = diff
	}
	return d
}
