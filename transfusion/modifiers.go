package transfusion

import "slices"

// RedCellModifiers derives the special processing required for red cell units.
// The result is sorted and free of duplicates.
func RedCellModifiers(p PatientSnapshot) []Modifier {
	mods := []Modifier{}

	if p.RecurrentSevereAllergicReactions {
		mods = append(mods, Washed)
	}
	if p.Alloimmunized || p.SickleCellDisease {
		mods = append(mods, Phenotyped)
	}
	if p.Immunosuppressed {
		mods = append(mods, Filtered)
	}
	if p.OnSystemicImmunosuppressants {
		mods = append(mods, Irradiated)
	}

	slices.Sort(mods)
	return slices.Compact(mods)
}

// Advice texts attached to red cell recommendations.
const (
	AdviceHydration     = "Hidratar antes e após a transfusão para prevenir crises."
	AdviceAntihistamine = "Considerar pré-medicação com anti-histamínico."
	AdviceGVHD          = "Monitorar sinais de GVHD se hemocomponente não for irradiado."
)

// SupplementaryAdvice returns complementary care instructions in fixed order.
func SupplementaryAdvice(p PatientSnapshot) []string {
	advice := []string{}

	if p.SickleCellDisease {
		advice = append(advice, AdviceHydration)
	}
	if p.RecurrentSevereAllergicReactions {
		advice = append(advice, AdviceAntihistamine)
	}
	if p.Immunosuppressed {
		advice = append(advice, AdviceGVHD)
	}

	return advice
}
