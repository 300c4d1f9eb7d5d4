package forecast

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/weather"
)

const dateLayout = "20060102"

// defaultFillValue is the revenue placeholder for missing calendar dates
const defaultFillValue = 1000.0

// Config tunes the forecasting engine
type Config struct {
	FillValue *float64 // revenue assigned to missing calendar dates; nil means 1000
	Horizon   int      // forecast days past the last observed date
	Backtest  int      // held-out days for accuracy evaluation
	Period    int      // seasonal cycle length in days
}

// DefaultConfig returns the production configuration: 30-day horizon and
// backtest window, weekly seasonality, gap fill of 1000.
func DefaultConfig() Config {
	fill := defaultFillValue
	return Config{FillValue: &fill, Horizon: 30, Backtest: 30, Period: 7}
}

// DayValue is one dated revenue figure, date serialized as YYYYMMDD
type DayValue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// ExtremeDay is the single best or worst forecast day
type ExtremeDay struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Summary condenses the 30 forecast days
type Summary struct {
	TotalSales        float64    `json:"total_sales"`
	AverageDailySales float64    `json:"average_daily_sales"`
	MaxSales          ExtremeDay `json:"max_sales"`
	MinSales          ExtremeDay `json:"min_sales"`
}

// Performance holds the backtest accuracy metrics
type Performance struct {
	MAPE float64 `json:"mape"`
	RMSE float64 `json:"rmse"`
}

// TrendPoint is the model's trend component on one forecast day
type TrendPoint struct {
	Date  string  `json:"date"`
	Trend float64 `json:"trend"`
}

// Result is the full forecast payload
type Result struct {
	Previous30Days []DayValue   `json:"previous_30_days"`
	Predictions    []DayValue   `json:"predictions"`
	Summary        Summary      `json:"summary"`
	Performance    Performance  `json:"performance"`
	SeasonalTrend  []TrendPoint `json:"seasonal_trend"`
}

// Engine produces 30-day revenue forecasts with backtested accuracy
type Engine struct {
	cfg Config
}

// NewEngine creates a forecasting engine; unset config fields take defaults.
// A non-nil FillValue is honored as given, zero included.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Horizon <= 0 {
		cfg.Horizon = def.Horizon
	}
	if cfg.Backtest <= 0 {
		cfg.Backtest = def.Backtest
	}
	if cfg.Period <= 0 {
		cfg.Period = def.Period
	}
	if cfg.FillValue == nil {
		cfg.FillValue = def.FillValue
	}
	return &Engine{cfg: cfg}
}

// Forecast aggregates the merged transaction table to daily revenue, fills
// calendar gaps, backtests on the trailing window, refits on the full series
// and projects the horizon. Failures come back as a ModelFitError; the engine
// never panics past its boundary.
func (e *Engine) Forecast(rows []weather.Enriched) (*Result, error) {
	series := BuildDailySeries(rows, *e.cfg.FillValue)
	if len(series) == 0 {
		return nil, apperrors.ModelFit("forecast", "no transactions to aggregate")
	}
	if len(series) < e.cfg.Backtest+1 {
		return nil, apperrors.ModelFit("forecast", "need at least %d days of history, got %d", e.cfg.Backtest+1, len(series))
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Revenue
	}

	// Backtest on the held-out suffix
	split := len(values) - e.cfg.Backtest
	train, held := values[:split], values[split:]
	backtestModel := fitBest(train, e.cfg.Period)
	heldPred := backtestModel.forecast(e.cfg.Backtest)
	perf := Performance{
		MAPE: round(MAPE(held, heldPred), 4),
		RMSE: round(RMSE(held, heldPred), 4),
	}

	// Refit on the whole series and project the horizon
	model := fitBest(values, e.cfg.Period)
	horizon := model.forecast(e.cfg.Horizon)
	trend := model.trendComponent(e.cfg.Horizon)

	lastDate := series[len(series)-1].Date
	predictions := make([]DayValue, e.cfg.Horizon)
	trendPoints := make([]TrendPoint, e.cfg.Horizon)
	for i := 0; i < e.cfg.Horizon; i++ {
		date := lastDate.AddDate(0, 0, i+1).Format(dateLayout)
		predictions[i] = DayValue{Date: date, Revenue: round(horizon[i], 2)}
		trendPoints[i] = TrendPoint{Date: date, Trend: round(trend[i], 2)}
	}

	previous := make([]DayValue, 0, e.cfg.Horizon)
	for _, p := range series[len(series)-e.cfg.Horizon:] {
		previous = append(previous, DayValue{Date: p.Date.Format(dateLayout), Revenue: p.Revenue})
	}

	return &Result{
		Previous30Days: previous,
		Predictions:    predictions,
		Summary:        summarize(predictions),
		Performance:    perf,
		SeasonalTrend:  trendPoints,
	}, nil
}

// summarize computes total, average and the extreme forecast days
func summarize(predictions []DayValue) Summary {
	values := make([]float64, len(predictions))
	maxIdx, minIdx := 0, 0
	for i, p := range predictions {
		values[i] = p.Revenue
		if p.Revenue > predictions[maxIdx].Revenue {
			maxIdx = i
		}
		if p.Revenue < predictions[minIdx].Revenue {
			minIdx = i
		}
	}
	total := floats.Sum(values)
	return Summary{
		TotalSales:        total,
		AverageDailySales: round(total/float64(len(predictions)), 2),
		MaxSales:          ExtremeDay{Date: predictions[maxIdx].Date, Value: predictions[maxIdx].Revenue},
		MinSales:          ExtremeDay{Date: predictions[minIdx].Date, Value: predictions[minIdx].Revenue},
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
