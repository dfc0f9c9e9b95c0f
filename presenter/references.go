package presenter

import (
	"fmt"
	"strings"
)

// Reference is a bibliographic source behind the decision rules.
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

var references = []Reference{
	{
		Title: "Manual de Hemoterapia - Ministério da Saúde (PDF)",
		URL:   "https://bvsms.saude.gov.br/bvs/publicacoes/manual_hemoterapia_hemocomponentes.pdf",
	},
	{
		Title: "Carson JL, et al. Cochrane Review - Transfusion thresholds (2016)",
		URL:   "https://doi.org/10.1002/14651858.CD002042.pub4",
	},
	{
		Title: "Yazer MH, et al. Transfusion support for SCD (2019)",
		URL:   "https://doi.org/10.1111/trf.15130",
	},
	{
		Title: "Estcourt LJ, et al. Platelet transfusions in hematologic malignancies (2020)",
		URL:   "https://doi.org/10.1111/bjh.16410",
	},
	{
		Title: "Roback JD, et al. Technical Manual. 20th ed. AABB; 2020.",
	},
}

// References returns a copy of the reference list.
func References() []Reference {
	out := make([]Reference, len(references))
	copy(out, references)
	return out
}

// ReferencesMarkdown renders the reference list as a Markdown bullet list.
func ReferencesMarkdown() string {
	var b strings.Builder
	b.WriteString("📚 Referências utilizadas\n\n")
	for _, ref := range references {
		if ref.URL == "" {
			fmt.Fprintf(&b, "- %s\n", ref.Title)
			continue
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", ref.Title, ref.URL)
	}
	return b.String()
}
