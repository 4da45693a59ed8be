// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

// Package api exposes the analytics engine over HTTP.
//
// Routing uses chi with the standard middleware stack (request ID,
// real IP, panic recovery), CORS, and per-IP rate limiting. Every
// endpoint responds with the models.APIResponse envelope; query
// parameters are collected into request structs and validated with
// go-playground/validator before the engine is called.
package api
