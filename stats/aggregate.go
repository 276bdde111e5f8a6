package stats

import "gonum.org/v1/gonum/floats"

/*
Vote takes the leaf statistics reached on every tree of a forest, which
must be Histograms, and returns a Histogram with one vote per tree for the
class it predicts.
*/
func Vote(leaves []Stats) (*Histogram, error) {
	if len(leaves) == 0 {
		return nil, ErrNoStats
	}
	votes := &Histogram{Classes: make(map[string]int)}
	for _, l := range leaves {
		h, ok := l.(*Histogram)
		if !ok || h == nil {
			return nil, ErrUnsupportedStats
		}
		if h.Total == 0 {
			continue
		}
		v, _ := h.PredictedValue()
		votes.Classes[v]++
		votes.Total++
	}
	return votes, nil
}

/*
Average takes the leaf statistics reached on every tree of a forest, which
must be Moments of the same dimension, and returns the average of their
means.
*/
func Average(leaves []Stats) ([]float64, error) {
	if len(leaves) == 0 {
		return nil, ErrNoStats
	}
	var result []float64
	var n int
	for _, l := range leaves {
		m, ok := l.(*Moments)
		if !ok || m == nil {
			return nil, ErrUnsupportedStats
		}
		if m.Count == 0 {
			continue
		}
		if result == nil {
			result = make([]float64, len(m.Mean))
		}
		if len(m.Mean) != len(result) {
			return nil, ErrUnsupportedStats
		}
		floats.Add(result, m.Mean)
		n++
	}
	if n == 0 {
		return nil, ErrNoStats
	}
	floats.Scale(1/float64(n), result)
	return result, nil
}
