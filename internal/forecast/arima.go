// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package forecast

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// ARIMA(2,1,2): two autoregressive terms and two moving-average terms on
// the once-differenced series. The order is fixed; it is the house model
// for short-horizon infection forecasting and callers cannot vary it.
const (
	arOrder = 2
	maOrder = 2
)

// arimaModel holds fitted ARIMA(2,1,2) parameters for the differenced
// series w[t] = y[t] - y[t-1]:
//
//	w[t] = c + phi1*w[t-1] + phi2*w[t-2] + e[t] + theta1*e[t-1] + theta2*e[t-2]
type arimaModel struct {
	c      float64
	phi    [arOrder]float64
	theta  [maOrder]float64
	sigma2 float64

	// trailing state needed to start the forecast recursion
	lastW [arOrder]float64 // w[n-1], w[n-2]
	lastE [maOrder]float64 // e[n-1], e[n-2]
	lastY float64          // final undifferenced observation
}

// fitARIMA fits the model by conditional sum of squares, minimized with
// Nelder-Mead. Initial residuals are taken as zero, the standard
// conditional treatment. Parameter vectors outside the AR stationarity or
// MA invertibility region are rejected with a graded penalty so the
// simplex walks back inside.
func fitARIMA(series []float64) (*arimaModel, error) {
	if len(series) < arOrder+maOrder+2 {
		return nil, errors.New("series too short to difference and fit")
	}

	w := make([]float64, len(series)-1)
	for i := range w {
		w[i] = series[i+1] - series[i]
	}

	var mean float64
	for _, v := range w {
		mean += v
	}
	mean /= float64(len(w))

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			if pen := regionPenalty(p); pen > 0 {
				return pen
			}
			sse, _, _ := residuals(w, p)
			if !isFinite(sse) {
				return math.MaxFloat64
			}
			return sse
		},
	}

	initial := []float64{mean, 0.1, 0.05, 0.1, 0.05}
	result, err := optimize.Minimize(problem, initial, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, err
	}
	if err := result.Status.Err(); err != nil {
		return nil, err
	}

	p := result.X
	sse, lastE, count := residuals(w, p)
	if count <= 0 || !isFinite(sse) {
		return nil, errors.New("degenerate residual sequence")
	}

	m := &arimaModel{
		c:      p[0],
		phi:    [arOrder]float64{p[1], p[2]},
		theta:  [maOrder]float64{p[3], p[4]},
		sigma2: sse / float64(count),
		lastW:  [arOrder]float64{w[len(w)-1], w[len(w)-2]},
		lastE:  lastE,
		lastY:  series[len(series)-1],
	}
	return m, nil
}

// residuals runs the CSS recursion over the differenced series for
// parameter vector p = [c, phi1, phi2, theta1, theta2]. It returns the sum
// of squared residuals, the final two residuals in reverse order
// (e[n-1], e[n-2]), and the number of terms that entered the sum.
func residuals(w, p []float64) (sse float64, lastE [maOrder]float64, count int) {
	c, phi1, phi2, theta1, theta2 := p[0], p[1], p[2], p[3], p[4]

	e := make([]float64, len(w))
	for t := arOrder; t < len(w); t++ {
		pred := c + phi1*w[t-1] + phi2*w[t-2] + theta1*e[t-1] + theta2*e[t-2]
		e[t] = w[t] - pred
		sse += e[t] * e[t]
		count++
	}

	lastE = [maOrder]float64{e[len(e)-1], e[len(e)-2]}
	return sse, lastE, count
}

// regionPenalty returns 0 for admissible parameters, otherwise a value
// that grows with the violation. AR(2) stationarity requires
// phi2 + phi1 < 1, phi2 - phi1 < 1, |phi2| < 1; MA(2) invertibility is
// the same triangle in the thetas.
func regionPenalty(p []float64) float64 {
	var v float64
	v += excess(p[2] + p[1])
	v += excess(p[2] - p[1])
	v += excess(math.Abs(p[2]))
	v += excess(p[4] + p[3])
	v += excess(p[4] - p[3])
	v += excess(math.Abs(p[4]))
	if v == 0 {
		return 0
	}
	return 1e12 * (1 + v)
}

func excess(x float64) float64 {
	const bound = 0.999
	if x >= bound {
		return x - bound
	}
	return 0
}

// forecast produces point forecasts and forecast-error variances for
// h = 1..horizon on the original (undifferenced) scale.
//
// Point forecasts run the ARMA recursion on the differenced scale with
// future shocks set to zero, then integrate by cumulative summation.
// Variances come from the psi-weight expansion; with one order of
// differencing the weight on shock t-j at horizon h is the partial sum
// psi[0]+...+psi[j], hence the squared partial sums below.
func (m *arimaModel) forecast(horizon int) (points, variances []float64) {
	points = make([]float64, horizon)
	variances = make([]float64, horizon)

	// Differenced-scale recursion. w1 is the most recent value.
	w1, w2 := m.lastW[0], m.lastW[1]
	e1, e2 := m.lastE[0], m.lastE[1]
	level := m.lastY
	for h := 0; h < horizon; h++ {
		wf := m.c + m.phi[0]*w1 + m.phi[1]*w2 + m.theta[0]*e1 + m.theta[1]*e2
		level += wf
		points[h] = level

		w2, w1 = w1, wf
		e2, e1 = e1, 0
	}

	psi := m.psiWeights(horizon)
	var cum, sumSq float64
	for j := 0; j < horizon; j++ {
		cum += psi[j]
		sumSq += cum * cum
		variances[j] = m.sigma2 * sumSq
	}
	return points, variances
}

// psiWeights expands the ARMA(2,2) transfer function into its first n MA
// representation weights.
func (m *arimaModel) psiWeights(n int) []float64 {
	psi := make([]float64, n)
	for j := 0; j < n; j++ {
		switch j {
		case 0:
			psi[j] = 1
		default:
			var v float64
			if j <= maOrder {
				v = m.theta[j-1]
			}
			v += m.phi[0] * psi[j-1]
			if j >= 2 {
				v += m.phi[1] * psi[j-2]
			}
			psi[j] = v
		}
	}
	return psi
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
