package roi

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownSpecialty = errors.New("unknown specialty")
	ErrInvalidProfile   = errors.New("invalid profile")
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownAction    = errors.New("unknown action")
)

type Field string

const (
	FieldProviders              Field = "providers"
	FieldCollectionsPerProvider Field = "collectionsPerProvider"
	FieldBillingCostPct         Field = "billingCostPct"
	FieldDenialRatePct          Field = "denialRatePct"
	FieldUndercodingPct         Field = "undercodingPct"
)

// Fields lists every editable field in display order.
func Fields() []Field {
	return []Field{
		FieldProviders,
		FieldCollectionsPerProvider,
		FieldBillingCostPct,
		FieldDenialRatePct,
		FieldUndercodingPct,
	}
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) clamp(v float64) float64 {
	return math.Min(math.Max(v, r.Min), r.Max)
}

var bounds = map[Field]Range{
	FieldProviders:              {Min: 1, Max: 25},
	FieldCollectionsPerProvider: {Min: 200000, Max: 1200000},
	FieldBillingCostPct:         {Min: 2, Max: 12},
	FieldDenialRatePct:          {Min: 2, Max: 20},
	FieldUndercodingPct:         {Min: 5, Max: 35},
}

func Bounds(field Field) (Range, bool) {
	r, ok := bounds[field]
	return r, ok
}

const (
	DefaultProviders      = 3
	DefaultBillingCostPct = 5
)

// Profile describes a practice. Values outside their bounds are clamped by Calculate.
type Profile struct {
	Specialty              string  `json:"specialty"`
	Providers              int     `json:"providers"`
	CollectionsPerProvider float64 `json:"collectionsPerProvider"`
	BillingCostPct         float64 `json:"billingCostPct"`
	DenialRatePct          float64 `json:"denialRatePct"`
	UndercodingPct         float64 `json:"undercodingPct"`
}

// DefaultProfile returns the starting profile for a specialty.
func DefaultProfile(key string) (Profile, error) {
	specialty, ok := LookupSpecialty(key)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownSpecialty, key)
	}

	return Profile{
		Specialty:              specialty.Key,
		Providers:              DefaultProviders,
		CollectionsPerProvider: specialty.CollectionsPerProvider,
		BillingCostPct:         DefaultBillingCostPct,
		DenialRatePct:          specialty.DenialRatePct,
		UndercodingPct:         specialty.UndercodingPct,
	}, nil
}

func (p Profile) Get(field Field) (float64, error) {
	switch field {
	case FieldProviders:
		return float64(p.Providers), nil
	case FieldCollectionsPerProvider:
		return p.CollectionsPerProvider, nil
	case FieldBillingCostPct:
		return p.BillingCostPct, nil
	case FieldDenialRatePct:
		return p.DenialRatePct, nil
	case FieldUndercodingPct:
		return p.UndercodingPct, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// With returns a copy of p with field set to the clamped value.
func (p Profile) With(field Field, value float64) (Profile, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return p, fmt.Errorf("%w: %s is not a finite number", ErrInvalidProfile, field)
	}

	r, ok := bounds[field]
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	value = r.clamp(value)

	switch field {
	case FieldProviders:
		p.Providers = int(math.Round(value))
	case FieldCollectionsPerProvider:
		p.CollectionsPerProvider = value
	case FieldBillingCostPct:
		p.BillingCostPct = value
	case FieldDenialRatePct:
		p.DenialRatePct = value
	case FieldUndercodingPct:
		p.UndercodingPct = value
	}

	return p, nil
}

// Clamped validates p and pulls every numeric field into its bounds.
func (p Profile) Clamped() (Profile, error) {
	if _, ok := LookupSpecialty(p.Specialty); !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownSpecialty, p.Specialty)
	}

	var err error
	for _, field := range Fields() {
		value, _ := p.Get(field)
		if p, err = p.With(field, value); err != nil {
			return p, err
		}
	}
	return p, nil
}
