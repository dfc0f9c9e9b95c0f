// Package validation provides input validation for the hemotherapy API.
// It enforces the ranges the input form accepts before a snapshot reaches
// the decision engine, which assumes valid input.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/giygas/hemoterapia-api/interfaces"
	"github.com/giygas/hemoterapia-api/transfusion"
)

// Input form ranges
const (
	MinAge    = 0
	MaxAge    = 120
	MinWeight = 1.0
)

// FieldError describes a single out-of-range field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field violation of a snapshot.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid patient snapshot: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Compile-time check to ensure SnapshotValidatorImpl implements SnapshotValidator
var _ interfaces.SnapshotValidator = (*SnapshotValidatorImpl)(nil)

// SnapshotValidatorImpl implements the interfaces.SnapshotValidator interface
type SnapshotValidatorImpl struct{}

// NewSnapshotValidator creates a new snapshot validator
func NewSnapshotValidator() interfaces.SnapshotValidator {
	return &SnapshotValidatorImpl{}
}

// ValidateSnapshot returns a *ValidationError when any field is out of range
func (v *SnapshotValidatorImpl) ValidateSnapshot(s transfusion.PatientSnapshot) error {
	verr := &ValidationError{}

	if s.Age < MinAge || s.Age > MaxAge {
		verr.add("age", "must be between %d and %d years, got %d", MinAge, MaxAge, s.Age)
	}

	switch {
	case !isFinite(s.Weight):
		verr.add("weight", "must be a finite number")
	case s.Weight < MinWeight:
		verr.add("weight", "must be at least %.1f kg, got %g", MinWeight, s.Weight)
	}

	checkNonNegative(verr, "hemoglobin", s.Hemoglobin)
	checkNonNegative(verr, "inr", s.INR)

	if s.PlateletCount < 0 {
		verr.add("platelet_count", "must be non-negative, got %d", s.PlateletCount)
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func checkNonNegative(verr *ValidationError, field string, value float64) {
	switch {
	case !isFinite(value):
		verr.add(field, "must be a finite number")
	case value < 0:
		verr.add(field, "must be non-negative, got %g", value)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateTeachingFlag parses the teaching mode flag. An empty value means off.
func (v *SnapshotValidatorImpl) ValidateTeachingFlag(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "false", "0", "nao", "não":
		return false, nil
	case "true", "1", "sim":
		return true, nil
	}
	return false, fmt.Errorf("invalid teaching flag %q: expected true or false", input)
}
