package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// kmeansRun is the outcome of one k-means fit
type kmeansRun struct {
	labels    []int
	centroids [][]float64
	inertia   float64 // within-cluster sum of squared distances
}

// kMeans fits a k-means partition with k-means++ seeding. nInit restarts are
// run with derived seeds and the lowest-inertia run wins, so results are
// reproducible for a fixed seed.
func kMeans(data [][]float64, k int, seed int64, nInit, maxIter int) kmeansRun {
	best := kmeansRun{inertia: math.Inf(1)}
	for init := 0; init < nInit; init++ {
		rng := rand.New(rand.NewSource(seed + int64(init)))
		run := lloyd(data, k, rng, maxIter)
		if run.inertia < best.inertia {
			best = run
		}
	}
	return best
}

// lloyd runs one seeded k-means fit to convergence or maxIter
func lloyd(data [][]float64, k int, rng *rand.Rand, maxIter int) kmeansRun {
	dim := len(data[0])
	centroids := seedPlusPlus(data, k, rng)
	labels := make([]int, len(data))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, point := range data {
			c := nearest(point, centroids)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, point := range data {
			counts[labels[i]]++
			floats.Add(sums[labels[i]], point)
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// re-seed an empty cluster on the point farthest from its centroid
				centroids[c] = append([]float64(nil), farthestPoint(data, labels, centroids)...)
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	inertia := 0.0
	for i, point := range data {
		d := floats.Distance(point, centroids[labels[i]], 2)
		inertia += d * d
	}
	return kmeansRun{labels: labels, centroids: centroids, inertia: inertia}
}

// seedPlusPlus picks initial centroids with the k-means++ scheme
func seedPlusPlus(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := data[rng.Intn(len(data))]
	centroids = append(centroids, append([]float64(nil), first...))

	dists := make([]float64, len(data))
	for len(centroids) < k {
		total := 0.0
		for i, point := range data {
			d := floats.Distance(point, centroids[len(centroids)-1], 2)
			sq := d * d
			if len(centroids) == 1 || sq < dists[i] {
				dists[i] = sq
			}
			total += dists[i]
		}
		var next []float64
		if total == 0 {
			next = data[rng.Intn(len(data))]
		} else {
			target := rng.Float64() * total
			acc := 0.0
			next = data[len(data)-1]
			for i, d := range dists {
				acc += d
				if acc >= target {
					next = data[i]
					break
				}
			}
		}
		centroids = append(centroids, append([]float64(nil), next...))
	}
	return centroids
}

// nearest returns the index of the closest centroid
func nearest(point []float64, centroids [][]float64) int {
	bestIdx, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(point, centroid, 2); d < bestDist {
			bestIdx, bestDist = c, d
		}
	}
	return bestIdx
}

// farthestPoint finds the point with the largest distance to its assigned
// centroid, used to repopulate empty clusters.
func farthestPoint(data [][]float64, labels []int, centroids [][]float64) []float64 {
	bestIdx, bestDist := 0, -1.0
	for i, point := range data {
		if d := floats.Distance(point, centroids[labels[i]], 2); d > bestDist {
			bestIdx, bestDist = i, d
		}
	}
	return data[bestIdx]
}
