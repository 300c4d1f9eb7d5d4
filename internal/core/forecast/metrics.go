package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// mapeEps guards the relative error against zero actuals
const mapeEps = 2.220446049250313e-16

// MAPE computes the mean absolute percentage error between actual and
// predicted values.
func MAPE(actual, predicted []float64) float64 {
	errs := make([]float64, len(actual))
	for i := range actual {
		errs[i] = math.Abs(actual[i]-predicted[i]) / math.Max(mapeEps, math.Abs(actual[i]))
	}
	return stat.Mean(errs, nil)
}

// RMSE computes the root mean squared error between actual and predicted
// values.
func RMSE(actual, predicted []float64) float64 {
	sq := make([]float64, len(actual))
	for i := range actual {
		d := actual[i] - predicted[i]
		sq[i] = d * d
	}
	return math.Sqrt(stat.Mean(sq, nil))
}
