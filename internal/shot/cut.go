package shot

// DetectCuts pushes a one-frame boundary (i+offset, i+offset+1) for every
// distance at or above the cut threshold. Adjacent hits are not merged.
//
// A zero distance never counts as a cut: on a series with no visual change at
// all the cut threshold collapses to 0 and would otherwise flag every frame.
func DetectCuts(distances []int, th Thresholds, offset int, store *Store) {
	for i, d := range distances {
		if d > 0 && float64(d) >= th.Cut {
			store.Push(Boundary{Start: i + offset, End: i + offset + 1, Kind: KindCut})
		}
	}
}
