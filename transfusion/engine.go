package transfusion

// Clinical thresholds.
const (
	hbCritical         = 7.0
	hbUnstable         = 8.0
	plateletsCritical  = 10000
	plateletsBleeding  = 50000
	inrBleedingTrigger = 1.8
)

// indicationRule fires a product indication when applies holds.
type indicationRule struct {
	product ProductKind
	reason  string
	applies func(PatientSnapshot) bool
}

// indicationRules is grouped by product in priority order. Within a product
// the first matching rule wins, so later rules only see snapshots that failed
// the earlier thresholds.
var indicationRules = []indicationRule{
	{
		product: RedCells,
		reason:  "Hb < 7 g/dL",
		applies: func(p PatientSnapshot) bool { return p.Hemoglobin < hbCritical },
	},
	{
		product: RedCells,
		reason:  "Hb < 8 g/dL com instabilidade hemodinâmica",
		applies: func(p PatientSnapshot) bool {
			return p.Hemoglobin < hbUnstable && p.HemodynamicInstability
		},
	},
	{
		product: Platelets,
		reason:  "Contagem < 10.000/mm³",
		applies: func(p PatientSnapshot) bool { return p.PlateletCount < plateletsCritical },
	},
	{
		product: Platelets,
		reason:  "Contagem < 50.000/mm³ com sangramento",
		applies: func(p PatientSnapshot) bool {
			return p.PlateletCount < plateletsBleeding && p.ActiveBleeding
		},
	},
	{
		product: FreshFrozenPlasma,
		reason:  "INR > 1.8 com sangramento ativo",
		applies: func(p PatientSnapshot) bool {
			return p.INR > inrBleedingTrigger && p.ActiveBleeding
		},
	},
}

// Engine evaluates snapshots. The zero value is ready to use.
type Engine struct{}

// NewEngine returns a decision engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate implements interfaces.Evaluator.
func (e *Engine) Evaluate(snapshot PatientSnapshot) []Recommendation {
	return Evaluate(snapshot)
}

// Evaluate returns the recommendations indicated for the snapshot, ordered
// RedCells, Platelets, FreshFrozenPlasma. An empty slice means no transfusion
// is indicated.
func Evaluate(snapshot PatientSnapshot) []Recommendation {
	recs := make([]Recommendation, 0, len(ProductKinds))

	for _, product := range ProductKinds {
		rule, ok := firstMatch(product, snapshot)
		if !ok {
			continue
		}
		recs = append(recs, buildRecommendation(rule, snapshot))
	}

	return recs
}

func firstMatch(product ProductKind, snapshot PatientSnapshot) (indicationRule, bool) {
	for _, rule := range indicationRules {
		if rule.product == product && rule.applies(snapshot) {
			return rule, true
		}
	}
	return indicationRule{}, false
}

func buildRecommendation(rule indicationRule, snapshot PatientSnapshot) Recommendation {
	rec := Recommendation{
		Product:   rule.product,
		Reason:    rule.reason,
		Dosage:    Dosage(rule.product, snapshot),
		Modifiers: []Modifier{},
		Advice:    []string{},
	}

	if rule.product == RedCells {
		rec.Modifiers = RedCellModifiers(snapshot)
		rec.Advice = SupplementaryAdvice(snapshot)
	}

	return rec
}
