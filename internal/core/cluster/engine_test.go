package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/ingest"
	"github.com/storelens/pos-insight-be/internal/core/weather"
)

func itemRow(item string, revenue, quantity, price float64, timeOfDay string) weather.Enriched {
	return weather.Enriched{Transaction: ingest.Transaction{
		Timestamp: time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC),
		Item:      item,
		Revenue:   revenue,
		Quantity:  quantity,
		UnitPrice: price,
		Month:     "03",
		Weekday:   "Friday",
		TimeOfDay: timeOfDay,
		Season:    ingest.SeasonSpring,
		Holiday:   ingest.FlagWeekday,
	}}
}

// twoGroupRows builds four high-volume lunch items and two low-volume dinner
// items, cleanly separable into two clusters.
func twoGroupRows() []weather.Enriched {
	return []weather.Enriched{
		itemRow("김치찌개", 10100, 10, 1000, ingest.TimeOfDayLunch),
		itemRow("된장찌개", 10200, 11, 1000, ingest.TimeOfDayLunch),
		itemRow("비빔밥", 10300, 12, 1000, ingest.TimeOfDayLunch),
		itemRow("불고기", 10400, 13, 1000, ingest.TimeOfDayLunch),
		itemRow("식혜", 110, 1, 110, ingest.TimeOfDayDinner),
		itemRow("수정과", 120, 1, 120, ingest.TimeOfDayDinner),
	}
}

func TestClusterTwoGroups(t *testing.T) {
	engine := NewEngine(Config{Seed: 42})

	result, err := engine.Cluster(twoGroupRows())
	require.NoError(t, err)

	assert.Equal(t, 2, result.OptimalK)
	require.Len(t, result.Clusters, 6)
	require.Len(t, result.ClusterSummary, 2)

	// every item assigned exactly once
	seen := map[string]int{}
	for _, a := range result.Clusters {
		seen[a.Item]++
		assert.GreaterOrEqual(t, a.Cluster, 0)
		assert.Less(t, a.Cluster, result.OptimalK)
	}
	assert.Len(t, seen, 6)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}

	// the two groups land in different clusters
	labels := map[string]int{}
	for _, a := range result.Clusters {
		labels[a.Item] = a.Cluster
	}
	assert.Equal(t, labels["김치찌개"], labels["불고기"])
	assert.Equal(t, labels["식혜"], labels["수정과"])
	assert.NotEqual(t, labels["김치찌개"], labels["식혜"])
}

func TestClusterRepresentativeItems(t *testing.T) {
	engine := NewEngine(Config{Seed: 42})

	result, err := engine.Cluster(twoGroupRows())
	require.NoError(t, err)

	labels := map[string]int{}
	for _, a := range result.Clusters {
		labels[a.Item] = a.Cluster
	}
	big := labels["불고기"]

	var bigStats *ClusterStats
	for i := range result.ClusterSummary {
		if result.ClusterSummary[i].Cluster == big {
			bigStats = &result.ClusterSummary[i]
		}
	}
	require.NotNil(t, bigStats)

	// four members, capped at the top 3 by revenue
	assert.Equal(t, []string{"불고기", "비빔밥", "된장찌개"}, bigStats.RepresentativeItems)
	assert.InDelta(t, (10100+10200+10300+10400)/4.0, bigStats.MeanRevenue, 1e-9)
	assert.InDelta(t, 1000, bigStats.MeanPrice, 1e-9)
}

func TestClusterTooFewItems(t *testing.T) {
	engine := NewEngine(Config{Seed: 42})

	_, err := engine.Cluster([]weather.Enriched{
		itemRow("김치찌개", 10000, 10, 1000, ingest.TimeOfDayLunch),
		itemRow("식혜", 100, 1, 100, ingest.TimeOfDayDinner),
	})
	var fitErr *apperrors.ModelFitError
	require.ErrorAs(t, err, &fitErr)
	assert.Equal(t, "cluster", fitErr.Stage)
}

func TestClusterDeterministic(t *testing.T) {
	engine := NewEngine(Config{Seed: 42})

	first, err := engine.Cluster(twoGroupRows())
	require.NoError(t, err)
	second, err := engine.Cluster(twoGroupRows())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestElbowK(t *testing.T) {
	// the relative WCSS drop is smallest between k=4 and k=5
	wcss := []float64{1000, 400, 200, 198, 120}
	assert.Equal(t, 5, elbowK(wcss, 2))

	assert.Equal(t, 2, elbowK([]float64{100}, 2))
}
