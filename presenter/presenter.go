// Package presenter renders transfusion recommendations for people: Markdown
// for the form and CLI, and enriched views for the JSON API. Output is in
// Brazilian Portuguese.
package presenter

import (
	"fmt"
	"strings"

	"github.com/giygas/hemoterapia-api/transfusion"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Messages shown around the recommendation list
const (
	IndicationsHeader = "Indicações e condutas sugeridas:"
	NoIndication      = "Nenhuma indicação clara de transfusão com os dados fornecidos."
	AdviceHeader      = "Condutas complementares recomendadas:"
)

var displayNames = map[transfusion.ProductKind]string{
	transfusion.RedCells:          "Hemácias",
	transfusion.Platelets:         "Plaquetas",
	transfusion.FreshFrozenPlasma: "Plasma Fresco Congelado",
}

var teachingNotes = map[transfusion.ProductKind]string{
	transfusion.RedCells:          "Hemácias: indicadas em anemias sintomáticas ou Hb < 7 g/dL. Cada unidade eleva Hb em ~1 g/dL.",
	transfusion.Platelets:         "Plaquetas: indicadas quando < 10.000/mm³ ou < 50.000/mm³ com sangramento.",
	transfusion.FreshFrozenPlasma: "Plasma: indicado para coagulopatias com sangramento ativo.",
}

var modifierNames = map[transfusion.Modifier]string{
	transfusion.Washed:     "lavado",
	transfusion.Phenotyped: "fenotipado",
	transfusion.Filtered:   "filtrado",
	transfusion.Irradiated: "irradiado",
}

var adviceIcons = map[string]string{
	transfusion.AdviceHydration:     "💧",
	transfusion.AdviceAntihistamine: "💊",
	transfusion.AdviceGVHD:          "🛡️",
}

// RecommendationView is a recommendation enriched with display fields.
type RecommendationView struct {
	Product         transfusion.ProductKind `json:"product"`
	DisplayName     string                  `json:"display_name"`
	Reason          string                  `json:"reason"`
	Dosage          string                  `json:"dosage"`
	Modifiers       []transfusion.Modifier  `json:"modifiers"`
	ModifierSummary string                  `json:"modifier_summary,omitempty"`
	ProductLabel    string                  `json:"product_label,omitempty"`
	Advice          []string                `json:"advice"`
	TeachingNote    string                  `json:"teaching_note,omitempty"`
}

// Presenter renders recommendations. The zero value is ready to use.
type Presenter struct {
	tag language.Tag
}

// New returns a pt-BR presenter.
func New() *Presenter {
	return &Presenter{tag: language.BrazilianPortuguese}
}

// DisplayName returns the Portuguese product name.
func DisplayName(kind transfusion.ProductKind) string {
	if name, ok := displayNames[kind]; ok {
		return name
	}
	return string(kind)
}

// TeachingNote returns the educational annotation for the product.
func TeachingNote(kind transfusion.ProductKind) string {
	return teachingNotes[kind]
}

// ProductLabel names the ideal red cell product, e.g.
// "Concentrado de hemácias fenotipado, lavado". Other products have no label.
func (p *Presenter) ProductLabel(rec transfusion.Recommendation) string {
	if rec.Product != transfusion.RedCells {
		return ""
	}
	if len(rec.Modifiers) == 0 {
		return "Concentrado de hemácias padrão"
	}

	names := make([]string, 0, len(rec.Modifiers))
	seen := make(map[string]bool, len(rec.Modifiers))
	for _, m := range rec.Modifiers {
		name, ok := modifierNames[m]
		if !ok {
			name = string(m)
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	// Collators keep internal buffers, so one is built per call.
	collate.New(p.language()).SortStrings(names)
	return "Concentrado de hemácias " + strings.Join(names, ", ")
}

func (p *Presenter) language() language.Tag {
	if p == nil || p.tag == language.Und {
		return language.BrazilianPortuguese
	}
	return p.tag
}

// View builds the structured form of each recommendation. Teaching notes are
// only filled when teaching is set.
func (p *Presenter) View(recs []transfusion.Recommendation, teaching bool) []RecommendationView {
	views := make([]RecommendationView, 0, len(recs))
	for _, rec := range recs {
		view := RecommendationView{
			Product:         rec.Product,
			DisplayName:     DisplayName(rec.Product),
			Reason:          rec.Reason,
			Dosage:          rec.Dosage,
			Modifiers:       nonNil(rec.Modifiers),
			ModifierSummary: rec.ModifierSummary(),
			ProductLabel:    p.ProductLabel(rec),
			Advice:          nonNil(rec.Advice),
		}
		if teaching {
			view.TeachingNote = TeachingNote(rec.Product)
		}
		views = append(views, view)
	}
	return views
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Markdown renders the recommendations as the form displays them.
func (p *Presenter) Markdown(recs []transfusion.Recommendation, teaching bool) string {
	var b strings.Builder

	if len(recs) == 0 {
		fmt.Fprintf(&b, "❌ %s\n", NoIndication)
		return b.String()
	}

	fmt.Fprintf(&b, "💡 %s\n", IndicationsHeader)

	for _, rec := range recs {
		b.WriteString("\n")
		fmt.Fprintf(&b, "**🩸 %s**\n", DisplayName(rec.Product))
		fmt.Fprintf(&b, "- Motivo: _%s_\n", rec.Reason)
		if label := p.ProductLabel(rec); label != "" {
			fmt.Fprintf(&b, "- Tipo ideal: **%s**\n", label)
		}
		fmt.Fprintf(&b, "- Conduta: **%s**\n", rec.Dosage)

		if len(rec.Advice) > 0 {
			fmt.Fprintf(&b, "\n**📌 %s**\n", AdviceHeader)
			for _, advice := range rec.Advice {
				if icon, ok := adviceIcons[advice]; ok {
					fmt.Fprintf(&b, "- %s %s\n", icon, advice)
					continue
				}
				fmt.Fprintf(&b, "- %s\n", advice)
			}
		}

		if teaching {
			if note := TeachingNote(rec.Product); note != "" {
				fmt.Fprintf(&b, "\n> ℹ️ %s\n", note)
			}
		}
	}

	return b.String()
}
