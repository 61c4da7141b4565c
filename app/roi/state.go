package roi

import (
	"encoding/json"
	"fmt"
)

// FieldSet records which fields the user has edited by hand.
type FieldSet uint8

func fieldBit(field Field) (FieldSet, bool) {
	for i, f := range Fields() {
		if f == field {
			return 1 << i, true
		}
	}
	return 0, false
}

func (s FieldSet) Has(field Field) bool {
	bit, ok := fieldBit(field)
	return ok && s&bit != 0
}

func (s FieldSet) With(field Field) FieldSet {
	bit, _ := fieldBit(field)
	return s | bit
}

func (s FieldSet) Fields() []Field {
	fields := make([]Field, 0)
	for _, f := range Fields() {
		if s.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

func (s FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Fields())
}

func (s *FieldSet) UnmarshalJSON(data []byte) error {
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var set FieldSet
	for _, f := range fields {
		bit, ok := fieldBit(f)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
		set |= bit
	}
	*s = set
	return nil
}

// specialtyFields follow the selected specialty unless overridden.
var specialtyFields = []Field{FieldCollectionsPerProvider, FieldDenialRatePct, FieldUndercodingPct}

// State is the estimator's interaction state. Transitions return new values.
type State struct {
	Profile   Profile  `json:"profile"`
	Overrides FieldSet `json:"overrides"`
}

func NewState(specialty string) (State, error) {
	profile, err := DefaultProfile(specialty)
	if err != nil {
		return State{}, err
	}
	return State{Profile: profile}, nil
}

// ApplySpecialty switches specialty and re-applies its defaults to the
// specialty fields the user has not overridden.
func (s State) ApplySpecialty(key string) (State, error) {
	defaults, err := DefaultProfile(key)
	if err != nil {
		return s, err
	}

	next := s
	next.Profile.Specialty = defaults.Specialty
	for _, field := range specialtyFields {
		if s.Overrides.Has(field) {
			continue
		}
		value, _ := defaults.Get(field)
		next.Profile, _ = next.Profile.With(field, value)
	}

	return next, nil
}

// EditField sets a field to the clamped value and marks it overridden.
func (s State) EditField(field Field, value float64) (State, error) {
	profile, err := s.Profile.With(field, value)
	if err != nil {
		return s, err
	}

	return State{
		Profile:   profile,
		Overrides: s.Overrides.With(field),
	}, nil
}

// Reset restores the current specialty's defaults and clears every override.
func (s State) Reset() State {
	profile, err := DefaultProfile(s.Profile.Specialty)
	if err != nil {
		profile, _ = DefaultProfile(DefaultSpecialty)
	}
	return State{Profile: profile}
}

type ActionType string

const (
	ActionApplySpecialty ActionType = "apply_specialty"
	ActionEditField      ActionType = "edit_field"
	ActionReset          ActionType = "reset"
)

// Action is a serialized transition, as sent by the estimator widget.
type Action struct {
	Type      ActionType `json:"type"`
	Specialty string     `json:"specialty,omitempty"`
	Field     Field      `json:"field,omitempty"`
	Value     *float64   `json:"value,omitempty"`
}

func (s State) Dispatch(action Action) (State, error) {
	switch action.Type {
	case ActionApplySpecialty:
		return s.ApplySpecialty(action.Specialty)
	case ActionEditField:
		if action.Value == nil {
			return s, fmt.Errorf("%w: %s requires a value", ErrInvalidProfile, ActionEditField)
		}
		return s.EditField(action.Field, *action.Value)
	case ActionReset:
		return s.Reset(), nil
	}
	return s, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
}
