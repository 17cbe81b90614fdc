package shot

// DetectGradual runs the twin-comparison scan over distances and pushes every
// accepted gradual transition into store.
//
// A run opens on a distance in [Gradual, Cut) and stays open until either
// tolerance consecutive distances fall below Gradual, or a distance reaches
// Cut. The run is then accepted only if its distances add up to at least Cut.
// A run still open when the series ends is closed at the last index and the
// scan stops there; later runs are not looked for.
//
// tolerance values below 1 are treated as 1.
func DetectGradual(distances []int, th Thresholds, tolerance, offset int, store *Store) {
	if tolerance < 1 {
		tolerance = 1
	}
	s := &twinScanner{
		d:         distances,
		th:        th,
		tolerance: tolerance,
		offset:    offset,
		store:     store,
	}
	s.scan()
}

type scanState int

const (
	stateIdle scanState = iota
	stateInRun
)

type twinScanner struct {
	d         []int
	th        Thresholds
	tolerance int
	offset    int
	store     *Store

	state scanState
	start int
}

func (s *twinScanner) scan() {
	i := 0
	for i < len(s.d) {
		if s.state == stateIdle {
			if !s.moderate(i) {
				i++
				continue
			}
			s.state = stateInRun
			s.start = i
		}

		next, more := s.follow()
		if !more {
			return
		}
		i = next
	}
}

// follow walks the open run forward, closes it, and returns the index the
// outer scan resumes at. more is false once the run hit the end of the series.
func (s *twinScanner) follow() (next int, more bool) {
	for j := s.start + 1; j < len(s.d); j++ {
		switch {
		case s.below(j):
			n := s.toleranceRun(j)
			if n >= s.tolerance {
				s.close(j - 1)
				return j + n + 1, true
			}
		case float64(s.d[j]) >= s.th.Cut:
			s.close(j - 1)
			return j + 1, true
		}
	}

	s.close(len(s.d) - 1)
	return len(s.d), false
}

// toleranceRun counts sub-threshold distances starting at j, looking at most
// tolerance entries past j.
func (s *twinScanner) toleranceRun(j int) int {
	n := 1
	for n <= s.tolerance && s.below(j+n) {
		n++
	}
	return n
}

func (s *twinScanner) close(end int) {
	if s.isRealTransition(s.start, end) {
		s.store.Push(Boundary{Start: s.start + s.offset, End: end + s.offset, Kind: KindGradual})
	}
	s.state = stateIdle
	s.start = 0
}

// isRealTransition reports whether the distances in [start, end] add up to a
// change as large as a cut.
func (s *twinScanner) isRealTransition(start, end int) bool {
	sum := 0
	for k := start; k <= end; k++ {
		sum += s.d[k]
	}
	return float64(sum) >= s.th.Cut
}

func (s *twinScanner) moderate(i int) bool {
	v := float64(s.d[i])
	return v >= s.th.Gradual && v < s.th.Cut
}

// below treats positions past the end of the series as sub-threshold.
func (s *twinScanner) below(k int) bool {
	return k >= len(s.d) || float64(s.d[k]) < s.th.Gradual
}
