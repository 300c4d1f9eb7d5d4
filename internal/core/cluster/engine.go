package cluster

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/weather"
)

// Selection criteria for the cluster count
const (
	SelectSilhouette = "silhouette"
	SelectElbow      = "elbow"
)

// Config tunes the clustering engine. Seed drives every k-means fit so runs
// on identical input are identical.
type Config struct {
	Seed     int64
	KMin     int
	KMax     int
	NInit    int
	MaxIter  int
	Selector string
}

// DefaultConfig mirrors the production setup: k searched over [2, 10] by
// silhouette, 10 restarts per fit.
func DefaultConfig() Config {
	return Config{Seed: 42, KMin: 2, KMax: 10, NInit: 10, MaxIter: 300, Selector: SelectSilhouette}
}

// Assignment maps one item to its cluster
type Assignment struct {
	Item    string `json:"item_name"`
	Cluster int    `json:"cluster"`
}

// ClusterStats summarizes one cluster with its highest-revenue items as a
// human-readable label.
type ClusterStats struct {
	Cluster             int      `json:"cluster"`
	MeanRevenue         float64  `json:"mean_revenue"`
	MeanQuantity        float64  `json:"mean_quantity"`
	MeanPrice           float64  `json:"mean_price"`
	RepresentativeItems []string `json:"representative_items"`
}

// Result is the full clustering payload
type Result struct {
	OptimalK       int            `json:"optimal_k"`
	Clusters       []Assignment   `json:"clusters"`
	ClusterSummary []ClusterStats `json:"cluster_summary"`
}

// Engine groups sold items into behaviorally similar clusters
type Engine struct {
	cfg Config
}

// NewEngine creates a clustering engine; zero config fields take defaults
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.KMin <= 0 {
		cfg.KMin = def.KMin
	}
	if cfg.KMax <= 0 {
		cfg.KMax = def.KMax
	}
	if cfg.NInit <= 0 {
		cfg.NInit = def.NInit
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = def.MaxIter
	}
	if cfg.Selector == "" {
		cfg.Selector = def.Selector
	}
	return &Engine{cfg: cfg}
}

// Cluster builds per-item feature vectors, selects the best cluster count
// and assigns every item to exactly one cluster. Failures come back as a
// ModelFitError.
func (e *Engine) Cluster(rows []weather.Enriched) (*Result, error) {
	fm := buildFeatures(rows)
	if len(fm.items) < e.cfg.KMin+1 {
		return nil, apperrors.ModelFit("cluster", "need at least %d distinct items, got %d", e.cfg.KMin+1, len(fm.items))
	}
	standardize(fm.data)

	kMax := e.cfg.KMax
	if limit := len(fm.items) - 1; kMax > limit {
		kMax = limit
	}

	runs := make(map[int]kmeansRun, kMax-e.cfg.KMin+1)
	var wcss []float64
	for k := e.cfg.KMin; k <= kMax; k++ {
		run := kMeans(fm.data, k, e.cfg.Seed, e.cfg.NInit, e.cfg.MaxIter)
		runs[k] = run
		wcss = append(wcss, run.inertia)
	}

	var bestK int
	switch e.cfg.Selector {
	case SelectElbow:
		bestK = elbowK(wcss, e.cfg.KMin)
		if bestK > kMax {
			bestK = kMax
		}
	default:
		// ascending scan with a strict improvement check: silhouette ties
		// resolve to the smallest k
		bestScore := -1.0
		bestK = e.cfg.KMin
		for k := e.cfg.KMin; k <= kMax; k++ {
			if score := silhouetteScore(fm.data, runs[k].labels, k); score > bestScore {
				bestScore = score
				bestK = k
			}
		}
	}

	final := runs[bestK]
	assignments := make([]Assignment, len(fm.items))
	for i, item := range fm.items {
		assignments[i] = Assignment{Item: item, Cluster: final.labels[i]}
	}

	return &Result{
		OptimalK:       bestK,
		Clusters:       assignments,
		ClusterSummary: summarize(fm, final.labels, bestK),
	}, nil
}

// summarize computes per-cluster means over the unstandardized item
// aggregates and extracts up to 3 representative items by revenue.
func summarize(fm *featureMatrix, labels []int, k int) []ClusterStats {
	members := make([][]int, k)
	for i, l := range labels {
		members[l] = append(members[l], i)
	}

	stats := make([]ClusterStats, k)
	for c := 0; c < k; c++ {
		idxs := members[c]
		revenues := make([]float64, len(idxs))
		quantities := make([]float64, len(idxs))
		prices := make([]float64, len(idxs))
		for j, i := range idxs {
			revenues[j] = fm.revenue[i]
			quantities[j] = fm.quantity[i]
			prices[j] = fm.price[i]
		}

		byRevenue := append([]int(nil), idxs...)
		sort.SliceStable(byRevenue, func(a, b int) bool {
			if fm.revenue[byRevenue[a]] != fm.revenue[byRevenue[b]] {
				return fm.revenue[byRevenue[a]] > fm.revenue[byRevenue[b]]
			}
			return fm.items[byRevenue[a]] < fm.items[byRevenue[b]]
		})
		reps := make([]string, 0, 3)
		for _, i := range byRevenue {
			if len(reps) == 3 {
				break
			}
			reps = append(reps, fm.items[i])
		}

		stats[c] = ClusterStats{
			Cluster:             c,
			MeanRevenue:         stat.Mean(revenues, nil),
			MeanQuantity:        stat.Mean(quantities, nil),
			MeanPrice:           stat.Mean(prices, nil),
			RepresentativeItems: reps,
		}
	}
	return stats
}
