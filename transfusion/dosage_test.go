package transfusion

import (
	"slices"
	"testing"
)

func TestRedCellUnits(t *testing.T) {
	tests := []struct {
		name     string
		hb       float64
		bleeding bool
		expected int64
	}{
		{"half unit rounds down to minimum", 6.5, false, 1},
		{"small deficit keeps minimum", 6.9, false, 1},
		{"bleeding raises target", 5.0, true, 3},
		{"banker's rounding on 2.5", 4.5, false, 2},
		{"banker's rounding on 3.5", 4.5, true, 4},
		{"above target uses absolute distance", 7.5, true, 1},
		{"zero hemoglobin", 0, false, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PatientSnapshot{Age: 40, Weight: 70, Hemoglobin: tt.hb, ActiveBleeding: tt.bleeding}
			if got := RedCellUnits(p); got != tt.expected {
				t.Errorf("RedCellUnits(hb=%.1f, bleeding=%v) = %d, want %d", tt.hb, tt.bleeding, got, tt.expected)
			}
		})
	}
}

func TestPlasmaUnits(t *testing.T) {
	tests := []struct {
		weight   float64
		expected int64
	}{
		{80, 4},
		{70, 4},   // 3.5 rounds to even
		{50, 2},   // 2.5 rounds to even
		{45.5, 2}, // 2.275
		{110, 6},  // 5.5 rounds to even
	}

	for _, tt := range tests {
		p := PatientSnapshot{Age: 40, Weight: tt.weight}
		if got := PlasmaUnits(p); got != tt.expected {
			t.Errorf("PlasmaUnits(weight=%.1f) = %d, want %d", tt.weight, got, tt.expected)
		}
	}
}

func TestPediatricVolumesTruncate(t *testing.T) {
	lo, hi := redCellPediatric.volumes(12.35)
	if lo != 123 || hi != 185 {
		t.Errorf("Expected 123–185, got %d–%d", lo, hi)
	}

	lo, hi = plateletPediatric.volumes(3.3)
	if lo != 16 || hi != 33 {
		t.Errorf("Expected 16–33, got %d–%d", lo, hi)
	}
}

func TestDosagePediatricThreshold(t *testing.T) {
	p := PatientSnapshot{Age: 14, Weight: 40, Hemoglobin: 6.0}
	if got := Dosage(RedCells, p); got != "400–600 mL de concentrado de hemácias (10–15 mL/kg)" {
		t.Errorf("Unexpected pediatric dosage at age 14: %q", got)
	}

	p.Age = 15
	if got := Dosage(RedCells, p); got != "1 bolsa(s) de concentrado de hemácias" {
		t.Errorf("Unexpected adult dosage at age 15: %q", got)
	}
}

func TestDosagePlateletsWithoutSubCondition(t *testing.T) {
	p := PatientSnapshot{Age: 40, Weight: 70, PlateletCount: 20000}
	if got := Dosage(Platelets, p); got != "" {
		t.Errorf("Expected empty guidance, got %q", got)
	}
}

func TestDosageUnknownProduct(t *testing.T) {
	if got := Dosage(ProductKind("cryoprecipitate"), PatientSnapshot{Age: 40, Weight: 70}); got != "" {
		t.Errorf("Expected empty guidance, got %q", got)
	}
}

func TestRedCellModifiers(t *testing.T) {
	tests := []struct {
		name     string
		snapshot PatientSnapshot
		expected []Modifier
		summary  string
	}{
		{
			name:     "none",
			snapshot: PatientSnapshot{},
			expected: []Modifier{},
			summary:  StandardRedCellLabel,
		},
		{
			name: "washed phenotyped irradiated",
			snapshot: PatientSnapshot{
				Alloimmunized:                    true,
				RecurrentSevereAllergicReactions: true,
				OnSystemicImmunosuppressants:     true,
			},
			expected: []Modifier{Irradiated, Phenotyped, Washed},
			summary:  "irradiated, phenotyped, washed",
		},
		{
			name:     "phenotyped deduplicated",
			snapshot: PatientSnapshot{Alloimmunized: true, SickleCellDisease: true},
			expected: []Modifier{Phenotyped},
			summary:  "phenotyped",
		},
		{
			name: "all",
			snapshot: PatientSnapshot{
				Alloimmunized:                    true,
				SickleCellDisease:                true,
				RecurrentSevereAllergicReactions: true,
				Immunosuppressed:                 true,
				OnSystemicImmunosuppressants:     true,
			},
			expected: []Modifier{Filtered, Irradiated, Phenotyped, Washed},
			summary:  "filtered, irradiated, phenotyped, washed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedCellModifiers(tt.snapshot)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}

			rec := Recommendation{Product: RedCells, Modifiers: got}
			if rec.ModifierSummary() != tt.summary {
				t.Errorf("Expected summary %q, got %q", tt.summary, rec.ModifierSummary())
			}
		})
	}
}

func TestSupplementaryAdvice(t *testing.T) {
	got := SupplementaryAdvice(PatientSnapshot{
		SickleCellDisease:                true,
		RecurrentSevereAllergicReactions: true,
		Immunosuppressed:                 true,
	})
	want := []string{AdviceHydration, AdviceAntihistamine, AdviceGVHD}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = SupplementaryAdvice(PatientSnapshot{Immunosuppressed: true})
	if !slices.Equal(got, []string{AdviceGVHD}) {
		t.Errorf("Expected only GVHD advice, got %v", got)
	}
}
