// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package forecast produces short-horizon infection forecasts from daily
// case series using a fixed ARIMA(2,1,2) model fitted by conditional sum
// of squares.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/covidlens/covidlens/internal/sanitize"
)

// MinObservations is the smallest number of valid observations the model
// will fit on.
const MinObservations = 10

// ModelName identifies the fitted model in responses.
const ModelName = "ARIMA(2,1,2)"

// ciZ is the two-sided 95% normal quantile used for interval bounds.
const ciZ = 1.959963984540054

// ErrInsufficientData reports fewer than MinObservations valid points.
var ErrInsufficientData = errors.New("insufficient observations for forecasting")

// FitError wraps a model estimation failure. Estimation failure on valid
// input is a server-side fault, distinct from insufficient data.
type FitError struct {
	Err error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("forecast model fit failed: %v", e.Err)
}

func (e *FitError) Unwrap() error { return e.Err }

// Point is a single forecast step. Predicted and Lower are floored at
// zero since negative case counts are not meaningful; Upper is left
// unclamped to preserve the interval's width.
type Point struct {
	Date      string  `json:"date"`
	Predicted float64 `json:"predicted"`
	Lower     float64 `json:"lower_bound"`
	Upper     float64 `json:"upper_bound"`
}

// Result is a completed forecast.
type Result struct {
	Model        string  `json:"model"`
	Observations int     `json:"observations"`
	Horizon      int     `json:"horizon"`
	LastObserved string  `json:"last_observed"`
	Points       []Point `json:"forecast"`
}

// Predict fits ARIMA(2,1,2) to a daily series and forecasts the next
// horizon days with 95% confidence intervals.
//
// Observations with a non-finite value are dropped before fitting; fewer
// than MinObservations survivors yields ErrInsufficientData. Any failure
// to estimate or to produce finite forecasts from valid input is wrapped
// in *FitError. Forecast dates are the consecutive calendar days after the
// last observed date.
func Predict(dates []time.Time, values []float64, horizon int) (*Result, error) {
	if len(dates) != len(values) {
		return nil, fmt.Errorf("dates and values length mismatch: %d vs %d", len(dates), len(values))
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}

	series := make([]float64, 0, len(values))
	var lastDate time.Time
	for i, v := range values {
		if isFinite(v) {
			series = append(series, v)
			lastDate = dates[i]
		}
	}

	if len(series) < MinObservations {
		return nil, fmt.Errorf("%w: %d valid of %d required", ErrInsufficientData, len(series), MinObservations)
	}

	model, err := fitARIMA(series)
	if err != nil {
		return nil, &FitError{Err: err}
	}

	preds, variances := model.forecast(horizon)

	points := make([]Point, horizon)
	for h := 0; h < horizon; h++ {
		if !isFinite(preds[h]) || !isFinite(variances[h]) || variances[h] < 0 {
			return nil, &FitError{Err: fmt.Errorf("non-finite forecast at step %d", h+1)}
		}
		se := math.Sqrt(variances[h])
		points[h] = Point{
			Date:      lastDate.AddDate(0, 0, h+1).Format(sanitize.DateFormat),
			Predicted: math.Max(0, sanitize.Round(preds[h], 2)),
			Lower:     math.Max(0, sanitize.Round(preds[h]-ciZ*se, 2)),
			Upper:     sanitize.Round(preds[h]+ciZ*se, 2),
		}
	}

	return &Result{
		Model:        ModelName,
		Observations: len(series),
		Horizon:      horizon,
		LastObserved: lastDate.Format(sanitize.DateFormat),
		Points:       points,
	}, nil
}
