package knowledge

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var (
	ErrEmptyCatalog      = errors.New("catalog has no conditions")
	ErrInvalidRecord     = errors.New("invalid condition record")
	ErrDuplicateName     = errors.New("duplicate condition name")
	ErrWeightMismatch    = errors.New("weights do not align with conditions")
	ErrNegativeWeight    = errors.New("negative selection weight")
	ErrDegenerateWeights = errors.New("all selection weights are zero")
	ErrMissingWeight     = errors.New("selection weight not set")
)

// Base is the immutable catalog of conditions with their selection weights.
// A Base is only obtainable through New, so holding one means it passed validation.
// It is safe for concurrent use; nothing writes to it after construction.
type Base struct {
	conditions []Condition
	weights    []float64
	total      float64
}

// New validates the conditions and positional weights and returns an immutable Base.
// Inputs are copied; later changes to them do not affect the Base.
func New(conditions []Condition, weights []float64) (*Base, error) {
	if len(conditions) == 0 {
		return nil, ErrEmptyCatalog
	}
	if len(weights) != len(conditions) {
		return nil, fmt.Errorf("%w: %d conditions, %d weights", ErrWeightMismatch, len(conditions), len(weights))
	}

	seen := make(map[string]struct{}, len(conditions))
	b := &Base{
		conditions: make([]Condition, 0, len(conditions)),
		weights:    slices.Clone(weights),
	}
	for i, c := range conditions {
		if err := validate(c); err != nil {
			return nil, fmt.Errorf("condition %d (%q): %w", i, c.Name, err)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
		}
		seen[c.Name] = struct{}{}

		w := weights[i]
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: %q has weight %v", ErrNegativeWeight, c.Name, w)
		}
		b.total += w
		b.conditions = append(b.conditions, c.clone())
	}
	if b.total == 0 {
		return nil, ErrDegenerateWeights
	}
	return b, nil
}

// FromEntries builds a Base from source entries.
func FromEntries(entries []Entry) (*Base, error) {
	conditions := make([]Condition, len(entries))
	weights := make([]float64, len(entries))
	for i, e := range entries {
		conditions[i] = e.Condition
		weights[i] = e.Weight
	}
	return New(conditions, weights)
}

func validate(c Condition) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidRecord)
	case strings.TrimSpace(c.Overview) == "":
		return fmt.Errorf("%w: empty overview", ErrInvalidRecord)
	case strings.TrimSpace(c.DoctorAdvice) == "":
		return fmt.Errorf("%w: empty doctor_advice", ErrInvalidRecord)
	case strings.TrimSpace(c.Recommendation) == "":
		return fmt.Errorf("%w: empty recommendation", ErrInvalidRecord)
	}
	lists := []struct {
		field string
		items []string
	}{
		{"causes", c.Causes},
		{"symptoms", c.Symptoms},
		{"precautions", c.Precautions},
	}
	for _, l := range lists {
		if len(l.items) == 0 {
			return fmt.Errorf("%w: no %s", ErrInvalidRecord, l.field)
		}
		for j, s := range l.items {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%w: %s[%d] is empty", ErrInvalidRecord, l.field, j)
			}
		}
	}
	return nil
}

// Len returns the number of conditions.
func (b *Base) Len() int {
	return len(b.conditions)
}

// Conditions returns a copy of the catalog in its stable order.
func (b *Base) Conditions() []Condition {
	out := make([]Condition, len(b.conditions))
	for i, c := range b.conditions {
		out[i] = c.clone()
	}
	return out
}

// Condition returns a copy of the i-th condition.
func (b *Base) Condition(i int) Condition {
	return b.conditions[i].clone()
}

// Weights returns a copy of the weights, index-aligned with Conditions.
func (b *Base) Weights() []float64 {
	return slices.Clone(b.weights)
}

// Probability returns weight[i] normalized by the sum of all weights.
func (b *Base) Probability(i int) float64 {
	return b.weights[i] / b.total
}

// Entries returns the catalog as source entries, the inverse of FromEntries.
func (b *Base) Entries() []Entry {
	out := make([]Entry, len(b.conditions))
	for i, c := range b.conditions {
		out[i] = Entry{Condition: c.clone(), Weight: b.weights[i]}
	}
	return out
}
