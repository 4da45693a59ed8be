// Covidlens - Multi-Source COVID-19 Analytics
// Copyright 2026 The Covidlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/covidlens/covidlens

package source

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/covidlens/covidlens/internal/logging"
)

// Demo seeding for local development and demos. Generates a
// deterministic half year of plausible 2021 data across all six
// tables so every endpoint returns something without a real ingest
// pipeline.

const (
	seedStart = "2021-01-01"
	seedDays  = 181
)

type seedCountry struct {
	name       string
	population int64
	baseDaily  float64 // mean daily new cases at the start of the window
	vaxRamp    float64 // daily vaccinations as a fraction of population
	vaccines   string
}

var seedCountries = []seedCountry{
	{"Germany", 83_100_000, 14000, 0.0045, "Comirnaty, Moderna, AstraZeneca"},
	{"France", 67_400_000, 18000, 0.0040, "Comirnaty, Moderna, AstraZeneca"},
	{"Italy", 59_000_000, 13000, 0.0042, "Comirnaty, Moderna, AstraZeneca"},
	{"Spain", 47_400_000, 11000, 0.0047, "Comirnaty, Moderna, AstraZeneca"},
	{"US", 331_900_000, 60000, 0.0050, "Comirnaty, Moderna, Janssen"},
	{"United Kingdom", 67_000_000, 16000, 0.0055, "Comirnaty, AstraZeneca"},
	{"Brazil", 213_900_000, 40000, 0.0025, "CoronaVac, AstraZeneca"},
	{"India", 1_393_000_000, 20000, 0.0020, "Covishield, Covaxin"},
}

// seedIfEmpty populates the warehouse with demo data when the JHU
// table is empty. Existing data is never touched.
func (s *Store) seedIfEmpty(ctx context.Context) error {
	var n int64
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM jhu_covid19_timeseries").Scan(&n); err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if n > 0 {
		logging.Debug().Int64("rows", n).Msg("Warehouse already populated, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding warehouse with demo data")
	rng := rand.New(rand.NewSource(42))
	start, err := time.Parse("2006-01-02", seedStart)
	if err != nil {
		return err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range seedCountries {
		cumCases, cumDeaths := int64(0), int64(0)
		cumVax, cumPeople, cumFully := int64(0), int64(0), int64(0)

		for day := 0; day < seedDays; day++ {
			date := start.AddDate(0, 0, day)

			// A broad winter wave decaying into spring, with noise.
			wave := 1.0 + 0.8*math.Sin(float64(day)/40.0)
			newCases := int64(c.baseDaily * wave * (0.8 + 0.4*rng.Float64()))
			if newCases < 0 {
				newCases = 0
			}
			newDeaths := int64(float64(newCases) * 0.018 * (0.7 + 0.6*rng.Float64()))
			cumCases += newCases
			cumDeaths += newDeaths

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO jhu_covid19_timeseries (country_region, province_state, date, case_type, cases) VALUES (?, NULL, ?, 'confirmed', ?), (?, NULL, ?, 'deaths', ?)`,
				c.name, date, cumCases, c.name, date, cumDeaths); err != nil {
				return fmt.Errorf("seed jhu: %w", err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO ecdc_global (country_region, date, cases, deaths, cases_since_prev_day, deaths_since_prev_day, population) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				c.name, date, cumCases, cumDeaths, newCases, newDeaths, c.population); err != nil {
				return fmt.Errorf("seed ecdc: %w", err)
			}

			// WHO reporting is sparser, every third day.
			if day%3 == 0 {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO who_situation_reports (country, date, total_cases, cases_new, deaths, deaths_new, transmission_classification, days_since_last_reported_case) VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
					c.name, date, cumCases, newCases, cumDeaths, newDeaths, "Community transmission"); err != nil {
					return fmt.Errorf("seed who: %w", err)
				}
			}

			daily := int64(float64(c.population) * c.vaxRamp * (0.7 + 0.6*rng.Float64()))
			cumVax += daily
			cumPeople += daily * 6 / 10
			cumFully += daily * 4 / 10
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO owid_vaccinations (country_region, date, total_vaccinations, people_vaccinated, people_fully_vaccinated, total_vaccinations_per_hundred, people_vaccinated_per_hundred, people_fully_vaccinated_per_hundred, daily_vaccinations, daily_vaccinations_per_million, vaccines) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.name, date, cumVax, cumPeople, cumFully,
				round2(float64(cumVax)/float64(c.population)*100),
				round2(float64(cumPeople)/float64(c.population)*100),
				round2(float64(cumFully)/float64(c.population)*100),
				daily,
				round2(float64(daily)/float64(c.population)*1_000_000),
				c.vaccines); err != nil {
				return fmt.Errorf("seed owid: %w", err)
			}
		}
	}

	if err := seedRestrictions(ctx, tx, rng, start); err != nil {
		return err
	}
	if err := seedRKI(ctx, tx, rng); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	logging.Info().Msg("Demo seed complete")
	return nil
}

func seedRestrictions(ctx context.Context, tx *sql.Tx, rng *rand.Rand, start time.Time) error {
	airlines := []string{"Lufthansa", "Air France", "British Airways", "Delta", "United", "Emirates", "Qatar Airways", "KLM"}
	texts := []string{
		"Entry suspended for foreign nationals",
		"Negative PCR test required within 72 hours",
		"Mandatory 10 day quarantine on arrival",
		"Flights suspended until further notice",
	}
	for i := 0; i < 48; i++ {
		c := seedCountries[rng.Intn(len(seedCountries))]
		published := start.AddDate(0, 0, rng.Intn(seedDays))
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hum_restrictions_airline (country, airline, restriction_text, published, sources, lat, long) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.name, airlines[rng.Intn(len(airlines))], texts[rng.Intn(len(texts))],
			published, "https://example.org/notams", round2(rng.Float64()*140-70), round2(rng.Float64()*360-180)); err != nil {
			return fmt.Errorf("seed restrictions: %w", err)
		}
	}
	return nil
}

func seedRKI(ctx context.Context, tx *sql.Tx, rng *rand.Rand) error {
	counties := []struct {
		name       string
		state      string
		population int64
	}{
		{"SK Berlin Mitte", "Berlin", 385_000},
		{"SK München", "Bayern", 1_488_000},
		{"SK Hamburg", "Hamburg", 1_852_000},
		{"SK Köln", "Nordrhein-Westfalen", 1_084_000},
		{"LK München", "Bayern", 348_000},
		{"SK Frankfurt am Main", "Hessen", 764_000},
		{"SK Stuttgart", "Baden-Württemberg", 635_000},
		{"SK Düsseldorf", "Nordrhein-Westfalen", 620_000},
		{"LK Heinsberg", "Nordrhein-Westfalen", 256_000},
		{"SK Leipzig", "Sachsen", 597_000},
		{"SK Dresden", "Sachsen", 556_000},
		{"SK Nürnberg", "Bayern", 518_000},
	}
	lastUpdate := time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC)
	for _, county := range counties {
		cases := int64(float64(county.population) * (0.04 + 0.03*rng.Float64()))
		deaths := int64(float64(cases) * (0.015 + 0.01*rng.Float64()))
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rki_de_dashboard (county, state, cases, deaths, cases_per_100k, death_rate, population, last_update_date) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			county.name, county.state, cases, deaths,
			round2(float64(cases)/float64(county.population)*100000),
			round2(float64(deaths)/float64(cases)*100),
			county.population, lastUpdate); err != nil {
			return fmt.Errorf("seed rki: %w", err)
		}
	}
	return nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
