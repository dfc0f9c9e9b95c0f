package transfusion

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// Adult red cell targets (g/dL).
	hbTargetStable   = 7.0
	hbTargetBleeding = 8.0

	// Plasma volume per adult bag (mL).
	plasmaBagVolume = 200
)

// volumeRange is a pediatric weight-based dose expressed in mL/kg.
type volumeRange struct {
	minPerKg int64
	maxPerKg int64
}

var (
	redCellPediatric  = volumeRange{minPerKg: 10, maxPerKg: 15}
	plateletPediatric = volumeRange{minPerKg: 5, maxPerKg: 10}
	plasmaPediatric   = volumeRange{minPerKg: 10, maxPerKg: 15}
)

// volumes returns the truncated mL bounds for the given weight.
func (v volumeRange) volumes(weight float64) (int64, int64) {
	w := decimal.NewFromFloat(weight)
	lo := w.Mul(decimal.NewFromInt(v.minPerKg)).Floor().IntPart()
	hi := w.Mul(decimal.NewFromInt(v.maxPerKg)).Floor().IntPart()
	return lo, hi
}

func (v volumeRange) format(weight float64, product string) string {
	lo, hi := v.volumes(weight)
	return fmt.Sprintf("%d–%d mL de %s (%d–%d mL/kg)", lo, hi, product, v.minPerKg, v.maxPerKg)
}

// Dosage returns the quantity guidance for the product. It is independent of
// whether an indication fired.
func Dosage(product ProductKind, p PatientSnapshot) string {
	switch product {
	case RedCells:
		if p.IsPediatric() {
			return redCellPediatric.format(p.Weight, "concentrado de hemácias")
		}
		return fmt.Sprintf("%d bolsa(s) de concentrado de hemácias", RedCellUnits(p))

	case Platelets:
		if p.IsPediatric() {
			return plateletPediatric.format(p.Weight, "concentrado de plaquetas")
		}
		switch {
		case p.PlateletCount < plateletsCritical:
			return "1 unidade de aférese ou 5–10 concentrados randômicos"
		case p.ActiveBleeding:
			return "1 unidade de aférese (ou equivalente randômico)"
		}
		// Only reachable when no platelet indication fired.
		return ""

	case FreshFrozenPlasma:
		if p.IsPediatric() {
			return plasmaPediatric.format(p.Weight, "plasma fresco congelado")
		}
		return fmt.Sprintf("%d bolsa(s) de plasma fresco congelado", PlasmaUnits(p))
	}

	return ""
}

// RedCellUnits is the adult red cell unit count: the rounded distance to the
// target hemoglobin, at least one.
func RedCellUnits(p PatientSnapshot) int64 {
	target := hbTargetStable
	if p.ActiveBleeding {
		target = hbTargetBleeding
	}

	deficit := decimal.NewFromFloat(target).Sub(decimal.NewFromFloat(p.Hemoglobin)).Abs()
	units := deficit.RoundBank(0).IntPart()
	return max(1, units)
}

// PlasmaUnits is the adult plasma bag count for a 10 mL/kg dose.
func PlasmaUnits(p PatientSnapshot) int64 {
	total := decimal.NewFromFloat(p.Weight).Mul(decimal.NewFromInt(10))
	return total.Div(decimal.NewFromInt(plasmaBagVolume)).RoundBank(0).IntPart()
}
