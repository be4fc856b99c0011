package domain

// Sector identifies one of the four cost sectors.
type Sector string

const (
	SectorPlanning      Sector = "PCP"
	SectorPreProduction Sector = "PRE"
	SectorLabor         Sector = "MOD"
	SectorWarehousing   Sector = "ALMX"
)

// Sectors lists every sector in load order.
var Sectors = []Sector{SectorPlanning, SectorPreProduction, SectorLabor, SectorWarehousing}

// DisplayName returns the sector name used in notices.
func (s Sector) DisplayName() string {
	switch s {
	case SectorPlanning:
		return "PCP"
	case SectorPreProduction:
		return "Pré-Produção"
	case SectorLabor:
		return "MOD"
	case SectorWarehousing:
		return "Almoxarifado"
	default:
		return string(s)
	}
}

// Labor cost line labels as they appear in the labor sector source.
const (
	LineTotal             = "Total geral:"
	LineHealthPlan        = "Plano de Saúde"
	LineMealVoucher       = "Vale Alimentação"
	LineBonus             = "Gratificação"
	LineOvertime          = "Hora Extra"
	LineContractor        = "PJ"
	LineGrossWithVacation = "Bruto c/ Férias"
	LineVacation13th      = "1/3 Férias + 13º"
	LineFGTS              = "FGTS"
	LineFGTSSeverance     = "FGTS + Rescisão"
	LineTransitVoucher    = "VT"
	LineTransitDiscount   = "Desconto VT"
)

// SectorMonth is one transposed month row of a sector cost table.
// Values holds only the line items whose cell parsed as a number.
type SectorMonth struct {
	Period Period             `json:"period"`
	Values map[string]float64 `json:"values"`
}

// Value returns the line item for the month and whether it was present.
func (m SectorMonth) Value(label string) (float64, bool) {
	v, ok := m.Values[label]
	return v, ok
}

// SectorCostTable is a month-indexed table of named cost line items.
// Months are in positional (chronological) order.
type SectorCostTable struct {
	Sector Sector        `json:"sector"`
	Labels []string      `json:"labels"`
	Months []SectorMonth `json:"months"`
}

// HasLabel reports whether the source carried a line with the given label.
func (t *SectorCostTable) HasLabel(label string) bool {
	if t == nil {
		return false
	}
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Series returns the non-missing values of a line item in month order.
func (t *SectorCostTable) Series(label string) []float64 {
	if t == nil {
		return nil
	}
	out := make([]float64, 0, len(t.Months))
	for _, m := range t.Months {
		if v, ok := m.Value(label); ok {
			out = append(out, v)
		}
	}
	return out
}
