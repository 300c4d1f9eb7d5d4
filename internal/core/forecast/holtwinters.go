package forecast

import "gonum.org/v1/gonum/stat"

// holtWinters is an additive Holt-Winters model: level, linear trend and an
// additive seasonal cycle. Fitting is closed-form recursive smoothing, fully
// deterministic.
type holtWinters struct {
	alpha, beta, gamma float64
	period             int

	level    float64
	trend    float64
	seasonal []float64
	n        int     // observations consumed, fixes the seasonal phase
	sse      float64 // one-step-ahead in-sample squared error
}

// fitHoltWinters smooths the series with fixed parameters. Series shorter
// than two full cycles fall back to Holt's linear method (zero seasonality).
func fitHoltWinters(series []float64, alpha, beta, gamma float64, period int) *holtWinters {
	m := &holtWinters{
		alpha:    alpha,
		beta:     beta,
		gamma:    gamma,
		period:   period,
		seasonal: make([]float64, period),
		n:        len(series),
	}

	switch {
	case len(series) == 0:
		return m
	case len(series) < 2*period:
		m.level = series[0]
		m.gamma = 0
	default:
		first := stat.Mean(series[:period], nil)
		second := stat.Mean(series[period:2*period], nil)
		m.level = first
		m.trend = (second - first) / float64(period)

		cycles := len(series) / period
		cycleMeans := make([]float64, cycles)
		for c := 0; c < cycles; c++ {
			cycleMeans[c] = stat.Mean(series[c*period:(c+1)*period], nil)
		}
		for i := 0; i < period; i++ {
			sum := 0.0
			for c := 0; c < cycles; c++ {
				sum += series[c*period+i] - cycleMeans[c]
			}
			m.seasonal[i] = sum / float64(cycles)
		}
	}

	for t, x := range series {
		s := t % period
		oneStep := m.level + m.trend + m.seasonal[s]
		residual := x - oneStep
		m.sse += residual * residual

		prevLevel := m.level
		m.level = m.alpha*(x-m.seasonal[s]) + (1-m.alpha)*(m.level+m.trend)
		m.trend = m.beta*(m.level-prevLevel) + (1-m.beta)*m.trend
		m.seasonal[s] = m.gamma*(x-m.level) + (1-m.gamma)*m.seasonal[s]
	}
	return m
}

// smoothing parameter grid searched during fitting
var (
	alphaGrid = []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	betaGrid  = []float64{0.01, 0.05, 0.1}
	gammaGrid = []float64{0.1, 0.3, 0.5}
)

// fitBest grid-searches the smoothing parameters by in-sample one-step SSE.
// Ties keep the first combination scanned, so refits are reproducible.
func fitBest(series []float64, period int) *holtWinters {
	var best *holtWinters
	for _, a := range alphaGrid {
		for _, b := range betaGrid {
			for _, g := range gammaGrid {
				m := fitHoltWinters(series, a, b, g, period)
				if best == nil || m.sse < best.sse {
					best = m
				}
			}
		}
	}
	return best
}

// forecast projects h steps past the last observation
func (m *holtWinters) forecast(h int) []float64 {
	out := make([]float64, h)
	for i := 0; i < h; i++ {
		s := (m.n + i) % m.period
		out[i] = m.level + float64(i+1)*m.trend + m.seasonal[s]
	}
	return out
}

// trendComponent is the deseasonalized level-plus-trend projection over the
// forecast horizon.
func (m *holtWinters) trendComponent(h int) []float64 {
	out := make([]float64, h)
	for i := 0; i < h; i++ {
		out[i] = m.level + float64(i+1)*m.trend
	}
	return out
}
