package shot

// Distances returns the Manhattan distance between each pair of adjacent
// populated rows of t. Entry i compares rows i+1 and i+2, so the reserved row
// never takes part and the result has len(t)-2 entries. Tables with fewer than
// three rows give an empty series.
func Distances(t Table) []int {
	if len(t) < 3 {
		return []int{}
	}

	out := make([]int, len(t)-2)
	for i := 1; i < len(t)-1; i++ {
		out[i-1] = manhattan(&t[i], &t[i+1])
	}
	return out
}

func manhattan(a, b *Histogram) int {
	sum := 0
	for j := 1; j < HistogramBins; j++ {
		diff := a[j] - b[j]
		if diff < 0 {
			diff = -diff
		}
		sum += diff
	}
	return sum
}
