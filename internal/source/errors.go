// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package source

import "fmt"

// UnavailableError reports that a source table could not be queried.
// Multi-source operations fold it into a per-source failure section;
// single-source operations surface it as a gateway-class error.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// unavailable wraps a query failure in an UnavailableError unless err is
// nil.
func unavailable(src string, err error) error {
	if err == nil {
		return nil
	}
	return &UnavailableError{Source: src, Err: err}
}
