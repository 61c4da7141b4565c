package roi

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed benchmarks.yaml
var benchmarksYAML []byte

type Specialty struct {
	Key                    string  `yaml:"key" json:"key"`
	Label                  string  `yaml:"label" json:"label"`
	CollectionsPerProvider float64 `yaml:"collections_per_provider" json:"collectionsPerProvider"`
	DenialRatePct          float64 `yaml:"denial_rate_pct" json:"denialRatePct"`
	UndercodingPct         float64 `yaml:"undercoding_pct" json:"undercodingPct"`
	VisitsPerProvider      float64 `yaml:"visits_per_provider" json:"visitsPerProvider"`
	UndercodeDeltaPerVisit float64 `yaml:"undercode_delta" json:"undercodeDeltaPerVisit"`
}

var specialties = mustLoadBenchmarks(benchmarksYAML)

// DefaultSpecialty is the specialty a fresh estimator starts with.
const DefaultSpecialty = "emergency-medicine"

func mustLoadBenchmarks(data []byte) []Specialty {
	list, err := parseBenchmarks(data)
	if err != nil {
		panic(err)
	}
	return list
}

func parseBenchmarks(data []byte) ([]Specialty, error) {
	var list []Specialty
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse benchmarks: %w", err)
	}

	seen := make(map[string]bool, len(list))
	for _, s := range list {
		if s.Key == "" {
			return nil, fmt.Errorf("benchmark without key")
		}
		if seen[s.Key] {
			return nil, fmt.Errorf("duplicate benchmark %q", s.Key)
		}
		seen[s.Key] = true

		if s.VisitsPerProvider <= 0 || s.UndercodeDeltaPerVisit <= 0 {
			return nil, fmt.Errorf("benchmark %q: visits and undercode delta must be positive", s.Key)
		}
		for field, value := range map[Field]float64{
			FieldCollectionsPerProvider: s.CollectionsPerProvider,
			FieldDenialRatePct:          s.DenialRatePct,
			FieldUndercodingPct:         s.UndercodingPct,
		} {
			b := bounds[field]
			if value < b.Min || value > b.Max {
				return nil, fmt.Errorf("benchmark %q: %s %v outside [%v, %v]", s.Key, field, value, b.Min, b.Max)
			}
		}
	}

	return list, nil
}

// Specialties returns the benchmark table in display order.
func Specialties() []Specialty {
	list := make([]Specialty, len(specialties))
	copy(list, specialties)
	return list
}

func LookupSpecialty(key string) (Specialty, bool) {
	for _, s := range specialties {
		if s.Key == key {
			return s, true
		}
	}
	return Specialty{}, false
}
