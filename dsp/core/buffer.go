package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Clone returns a copy of src. A nil input yields nil.
func Clone(src []float64) []float64 {
	if src == nil {
		return nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// Select returns the elements of src whose mask entry is true.
// A nil mask selects everything; mask and src must have equal length otherwise.
func Select(src []float64, mask []bool) []float64 {
	if mask == nil {
		return Clone(src)
	}
	out := make([]float64, 0, len(src))
	for i, keep := range mask {
		if keep {
			out = append(out, src[i])
		}
	}
	return out
}
