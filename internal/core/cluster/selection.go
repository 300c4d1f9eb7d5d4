package cluster

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// silhouetteScore computes the mean silhouette coefficient over all points.
// Singleton clusters contribute 0, matching the usual convention.
func silhouetteScore(data [][]float64, labels []int, k int) float64 {
	n := len(data)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := floats.Distance(data[i], data[j], 2)
			dist[i][j], dist[j][i] = d, d
		}
	}

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	total := 0.0
	for i := 0; i < n; i++ {
		own := labels[i]
		if sizes[own] <= 1 {
			continue // silhouette of a singleton is 0
		}

		sums := make([]float64, k)
		for j := 0; j < n; j++ {
			if j != i {
				sums[labels[j]] += dist[i][j]
			}
		}

		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if mean := sums[c] / float64(sizes[c]); mean < b {
				b = mean
			}
		}
		total += (b - a) / math.Max(a, b)
	}
	return total / float64(n)
}

// elbowK picks k from a WCSS curve: the point where the relative drop in
// within-cluster sum of squares flattens out.
func elbowK(wcss []float64, kMin int) int {
	if len(wcss) < 2 {
		return kMin
	}
	ratios := make([]float64, len(wcss)-1)
	for i := 1; i < len(wcss); i++ {
		if wcss[i-1] == 0 {
			ratios[i-1] = 0
			continue
		}
		ratios[i-1] = math.Abs((wcss[i] - wcss[i-1]) / wcss[i-1])
	}
	return floats.MinIdx(ratios) + kMin + 1
}
