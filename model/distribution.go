package model

// ArgMax returns the label with the highest probability and that probability.
// Ties go to the lowest class index.
func ArgMax(dist []float64) (Label, float64) {
	best := 0
	for k := 1; k < len(dist); k++ {
		if dist[k] > dist[best] {
			best = k
		}
	}
	if len(dist) == 0 {
		return Abstain, 0
	}
	return Label(best), dist[best]
}

// Uniform returns the maximally uncertain distribution over c classes.
func Uniform(c int) []float64 {
	dist := make([]float64, c)
	for k := range dist {
		dist[k] = 1 / float64(c)
	}
	return dist
}
