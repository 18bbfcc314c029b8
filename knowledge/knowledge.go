// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package knowledge

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Price quote metadata
const (
	Currency = "LKR"
	Unit     = "per kg"
)

// Moisture levels
const (
	MoistureDry = "dry"
	MoistureWet = "wet"
)

// Severity levels
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Search categories
const (
	CategoryMarket      = "market"
	CategoryCultivation = "cultivation"
)

var ErrInvalidTable = errors.New("invalid knowledge table")

//go:embed data/knowledge.yaml
var defaultTables []byte

type Price struct {
	Dry float64 `json:"dry"`
	Wet float64 `json:"wet"`
}

// ForMoisture returns the price for a moisture level ("dry" or "wet").
func (p Price) ForMoisture(moisture string) (float64, bool) {
	switch strings.ToLower(moisture) {
	case MoistureDry:
		return p.Dry, true
	case MoistureWet:
		return p.Wet, true
	}
	return 0, false
}

type CultivationInfo struct {
	Season     string   `json:"season"`
	Planting   string   `json:"planting"`
	Harvesting string   `json:"harvesting"`
	Varieties  []string `json:"varieties"`
}

type ProblemInfo struct {
	Causes    []string `json:"causes"`
	Solutions []string `json:"solutions"`
	Severity  string   `json:"severity"`
}

// PriceQuote is a single narrowed market price.
// Price holds a number when a moisture level was requested, the
// {dry, wet} pair when none was, and is nil for an unknown moisture.
type PriceQuote struct {
	District    string    `json:"district"`
	Variety     string    `json:"variety"`
	Moisture    string    `json:"moisture,omitempty"`
	Price       any       `json:"price,omitempty"`
	Currency    string    `json:"currency"`
	Unit        string    `json:"unit"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type SearchResult struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Data  any    `json:"data"`
}

// file layout of the YAML tables
type tableFile struct {
	MarketPrices []struct {
		District  string `yaml:"district"`
		Varieties []struct {
			Name string  `yaml:"name"`
			Dry  float64 `yaml:"dry"`
			Wet  float64 `yaml:"wet"`
		} `yaml:"varieties"`
	} `yaml:"market_prices"`
	Cultivation []struct {
		Season     string   `yaml:"season"`
		Window     string   `yaml:"window"`
		Planting   string   `yaml:"planting"`
		Harvesting string   `yaml:"harvesting"`
		Varieties  []string `yaml:"varieties"`
	} `yaml:"cultivation"`
	Problems []struct {
		Issue     string   `yaml:"issue"`
		Causes    []string `yaml:"causes"`
		Solutions []string `yaml:"solutions"`
		Severity  string   `yaml:"severity"`
	} `yaml:"problems"`
}

// Store is the immutable set of knowledge tables.
type Store struct {
	prices    map[string]map[string]Price
	districts []string

	calendar map[string]CultivationInfo
	seasons  []string

	problems map[string]ProblemInfo
}

// Default returns the store built from the embedded tables.
func Default() (*Store, error) {
	return Load(bytes.NewReader(defaultTables))
}

// LoadFile builds a store from a YAML file on disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load builds a store from YAML tables.
func Load(r io.Reader) (*Store, error) {
	var tf tableFile
	if err := yaml.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge tables: %w", err)
	}

	s := &Store{
		prices:   make(map[string]map[string]Price),
		calendar: make(map[string]CultivationInfo),
		problems: make(map[string]ProblemInfo),
	}

	for _, d := range tf.MarketPrices {
		district := normalizeKey(d.District)
		if district == "" {
			return nil, fmt.Errorf("%w: market price entry without district", ErrInvalidTable)
		}
		if _, dup := s.prices[district]; dup {
			return nil, fmt.Errorf("%w: duplicate district %q", ErrInvalidTable, district)
		}
		varieties := make(map[string]Price, len(d.Varieties))
		for _, v := range d.Varieties {
			name := normalizeKey(v.Name)
			if name == "" {
				return nil, fmt.Errorf("%w: variety without name in %q", ErrInvalidTable, district)
			}
			if _, dup := varieties[name]; dup {
				return nil, fmt.Errorf("%w: duplicate variety %q in %q", ErrInvalidTable, name, district)
			}
			varieties[name] = Price{Dry: v.Dry, Wet: v.Wet}
		}
		s.prices[district] = varieties
		s.districts = append(s.districts, district)
	}

	for _, c := range tf.Cultivation {
		season := normalizeKey(c.Season)
		if season == "" {
			return nil, fmt.Errorf("%w: cultivation entry without season", ErrInvalidTable)
		}
		if _, dup := s.calendar[season]; dup {
			return nil, fmt.Errorf("%w: duplicate season %q", ErrInvalidTable, season)
		}
		varieties := make([]string, 0, len(c.Varieties))
		for _, v := range c.Varieties {
			varieties = append(varieties, normalizeKey(v))
		}
		s.calendar[season] = CultivationInfo{
			Season:     c.Window,
			Planting:   c.Planting,
			Harvesting: c.Harvesting,
			Varieties:  varieties,
		}
		s.seasons = append(s.seasons, season)
	}

	for _, p := range tf.Problems {
		issue := normalizeKey(p.Issue)
		if issue == "" {
			return nil, fmt.Errorf("%w: problem entry without issue", ErrInvalidTable)
		}
		if _, dup := s.problems[issue]; dup {
			return nil, fmt.Errorf("%w: duplicate issue %q", ErrInvalidTable, issue)
		}
		switch p.Severity {
		case SeverityLow, SeverityMedium, SeverityHigh:
		default:
			return nil, fmt.Errorf("%w: issue %q has severity %q", ErrInvalidTable, issue, p.Severity)
		}
		s.problems[issue] = ProblemInfo{
			Causes:    nonNil(p.Causes),
			Solutions: nonNil(p.Solutions),
			Severity:  p.Severity,
		}
	}

	return s, nil
}

// MarketPrices returns the full price table. Callers must not modify it.
func (s *Store) MarketPrices() map[string]map[string]Price {
	return s.prices
}

// Price looks up the price pair for a district and variety.
func (s *Store) Price(district, variety string) (Price, bool) {
	varieties, ok := s.prices[normalizeKey(district)]
	if !ok {
		return Price{}, false
	}
	p, ok := varieties[normalizeKey(variety)]
	return p, ok
}

// Quote narrows the price table to one district and variety, and to one
// moisture level when moisture is non-empty. District, variety and
// moisture are echoed exactly as supplied.
func (s *Store) Quote(district, variety, moisture string, now time.Time) (PriceQuote, bool) {
	p, ok := s.Price(district, variety)
	if !ok {
		return PriceQuote{}, false
	}

	q := PriceQuote{
		District:    district,
		Variety:     variety,
		Moisture:    moisture,
		Currency:    Currency,
		Unit:        Unit,
		LastUpdated: now.UTC(),
	}
	if moisture == "" {
		q.Price = p
	} else if v, ok := p.ForMoisture(moisture); ok {
		q.Price = v
	}
	return q, true
}

// Calendar returns the full cultivation calendar. Callers must not modify it.
func (s *Store) Calendar() map[string]CultivationInfo {
	return s.calendar
}

func (s *Store) Season(season string) (CultivationInfo, bool) {
	info, ok := s.calendar[normalizeKey(season)]
	return info, ok
}

// Problems returns the full problem table. Callers must not modify it.
func (s *Store) Problems() map[string]ProblemInfo {
	return s.problems
}

func (s *Store) Problem(issue string) (ProblemInfo, bool) {
	info, ok := s.problems[normalizeKey(issue)]
	return info, ok
}

// Search scans districts, seasons and season varieties for query.
// An empty category searches both tables; an unknown one matches nothing.
func (s *Store) Search(query, category string) []SearchResult {
	q := strings.ToLower(query)
	results := []SearchResult{}

	if category == "" || category == CategoryMarket {
		for _, district := range s.districts {
			if strings.Contains(district, q) {
				results = append(results, SearchResult{
					Type:  CategoryMarket,
					Title: "Market prices in " + district,
					Data:  s.prices[district],
				})
			}
		}
	}

	if category == "" || category == CategoryCultivation {
		for _, season := range s.seasons {
			info := s.calendar[season]
			if strings.Contains(season, q) || anyContains(info.Varieties, q) {
				results = append(results, SearchResult{
					Type:  CategoryCultivation,
					Title: season + " season cultivation",
					Data:  info,
				})
			}
		}
	}

	return results
}

func anyContains(values []string, sub string) bool {
	for _, v := range values {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
