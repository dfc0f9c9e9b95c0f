// Package transfusion implements the transfusion decision engine: given a
// patient's laboratory values and clinical flags it recommends which blood
// products to transfuse, how much, and with which special processing.
//
// Evaluation is pure. The same snapshot always yields the same
// recommendations, and Evaluate is safe to call concurrently.
package transfusion

import "strings"

// PatientSnapshot is the input of a single evaluation. Numeric fields are
// expected to be pre-validated (see the validation package).
type PatientSnapshot struct {
	Age           int     `json:"age"`            // years
	Weight        float64 `json:"weight"`         // kg
	Hemoglobin    float64 `json:"hemoglobin"`     // g/dL
	PlateletCount int     `json:"platelet_count"` // per mm³, raw count
	INR           float64 `json:"inr"`

	ActiveBleeding                   bool `json:"active_bleeding"`
	HemodynamicInstability           bool `json:"hemodynamic_instability"`
	Immunosuppressed                 bool `json:"immunosuppressed"`
	SickleCellDisease                bool `json:"sickle_cell_disease"`
	Alloimmunized                    bool `json:"alloimmunized"`
	RecurrentSevereAllergicReactions bool `json:"recurrent_severe_allergic_reactions"`
	OnSystemicImmunosuppressants     bool `json:"on_systemic_immunosuppressants"`
}

// IsPediatric reports whether dosing follows the weight-based pediatric scheme.
func (p PatientSnapshot) IsPediatric() bool {
	return p.Age < PediatricAgeThreshold
}

// PediatricAgeThreshold is the age (years) below which dosing is weight based.
const PediatricAgeThreshold = 15

// ProductKind identifies a blood product.
type ProductKind string

const (
	RedCells          ProductKind = "red_cells"
	Platelets         ProductKind = "platelets"
	FreshFrozenPlasma ProductKind = "fresh_frozen_plasma"
)

// ProductKinds lists every product in output priority order.
var ProductKinds = []ProductKind{RedCells, Platelets, FreshFrozenPlasma}

// Priority returns the output rank of the product, lower first. Unknown kinds
// sort last.
func (k ProductKind) Priority() int {
	for i, kind := range ProductKinds {
		if kind == k {
			return i
		}
	}
	return len(ProductKinds)
}

// Modifier is a special processing requirement for red cell units.
type Modifier string

const (
	Washed     Modifier = "washed"
	Phenotyped Modifier = "phenotyped"
	Filtered   Modifier = "filtered"
	Irradiated Modifier = "irradiated"
)

// StandardRedCellLabel is the summary of a red cell recommendation that needs
// no special processing.
const StandardRedCellLabel = "standard red cell concentrate"

// Recommendation is one indicated product.
type Recommendation struct {
	Product   ProductKind `json:"product"`
	Reason    string      `json:"reason"`
	Dosage    string      `json:"dosage"`
	Modifiers []Modifier  `json:"modifiers"`
	Advice    []string    `json:"advice"`
}

// ModifierSummary renders the modifiers as a sorted, comma-joined list. Red
// cells without modifiers yield StandardRedCellLabel; other products yield "".
func (r Recommendation) ModifierSummary() string {
	if r.Product != RedCells {
		return ""
	}
	if len(r.Modifiers) == 0 {
		return StandardRedCellLabel
	}

	names := make([]string, len(r.Modifiers))
	for i, m := range r.Modifiers {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
