package twin

import (
	"fmt"

	"github.com/shopspring/decimal"

	"prodboard/internal/aggregate"
	"prodboard/pkg/contracts/domain"
)

// LaborRates are the cost lines of the most recent labor month.
// Missing lines are zero.
type LaborRates struct {
	Period            domain.Period   `json:"period"`
	HealthPlan        decimal.Decimal `json:"health_plan"`
	MealVoucher       decimal.Decimal `json:"meal_voucher"`
	Bonus             decimal.Decimal `json:"bonus"`
	Overtime          decimal.Decimal `json:"overtime"`
	Contractor        decimal.Decimal `json:"contractor"`
	GrossWithVacation decimal.Decimal `json:"gross_with_vacation"`
	Vacation13th      decimal.Decimal `json:"vacation_13th"`
	FGTS              decimal.Decimal `json:"fgts"`
	FGTSSeverance     decimal.Decimal `json:"fgts_severance"`
	TransitVoucher    decimal.Decimal `json:"transit_voucher"`
	TransitDiscount   decimal.Decimal `json:"transit_discount"`
}

// LatestLaborRates reads the cost lines of the last labor month carrying a
// total. ok is false when no month has one.
func LatestLaborRates(labor *domain.SectorCostTable) (rates LaborRates, ok bool) {
	if labor == nil {
		return LaborRates{}, false
	}
	for i := len(labor.Months) - 1; i >= 0; i-- {
		m := labor.Months[i]
		if _, has := m.Value(domain.LineTotal); !has {
			continue
		}
		line := func(label string) decimal.Decimal {
			v, _ := m.Value(label)
			return decimal.NewFromFloat(v)
		}
		return LaborRates{
			Period:            m.Period,
			HealthPlan:        line(domain.LineHealthPlan),
			MealVoucher:       line(domain.LineMealVoucher),
			Bonus:             line(domain.LineBonus),
			Overtime:          line(domain.LineOvertime),
			Contractor:        line(domain.LineContractor),
			GrossWithVacation: line(domain.LineGrossWithVacation),
			Vacation13th:      line(domain.LineVacation13th),
			FGTS:              line(domain.LineFGTS),
			FGTSSeverance:     line(domain.LineFGTSSeverance),
			TransitVoucher:    line(domain.LineTransitVoucher),
			TransitDiscount:   line(domain.LineTransitDiscount),
		}, true
	}
	return LaborRates{}, false
}

// Overheads are the averaged totals of the support sectors.
type Overheads struct {
	Planning      decimal.Decimal `json:"planning"`
	PreProduction decimal.Decimal `json:"pre_production"`
	Warehousing   decimal.Decimal `json:"warehousing"`
}

// Total sums the three overheads.
func (o Overheads) Total() decimal.Decimal {
	return o.Planning.Add(o.PreProduction).Add(o.Warehousing)
}

// SectorOverhead is the mean of the last window recorded totals of a sector
// table. Fewer than window totals, or a missing table, give zero.
func SectorOverhead(t *domain.SectorCostTable, window int) decimal.Decimal {
	totals := t.Series(domain.LineTotal)
	if window <= 0 || len(totals) < window {
		return decimal.Zero
	}
	return meanOf(totals[len(totals)-window:])
}

// HistoricalDifficulty is the mean weighted/raw ratio of the last window
// periods with raw production. It is 1 when no period qualifies.
func HistoricalDifficulty(totals []aggregate.PeriodTotal, window int) decimal.Decimal {
	var ratios []decimal.Decimal
	for _, t := range totals {
		if t.Raw > 0 {
			ratios = append(ratios, decimal.NewFromFloat(t.Weighted).Div(decimal.NewFromFloat(t.Raw)))
		}
	}
	if len(ratios) == 0 || window <= 0 {
		return decimal.NewFromInt(1)
	}
	if len(ratios) > window {
		ratios = ratios[len(ratios)-window:]
	}
	return decimal.Avg(ratios[0], ratios[1:]...)
}

// BaselineProductivity is the mean of the last window recorded hourly
// productivities of the capacity log, zero when none is recorded.
func BaselineProductivity(capacity []domain.CapacityRecord, window int) decimal.Decimal {
	var values []float64
	for _, c := range capacity {
		if c.ProductionPerHour != nil {
			values = append(values, *c.ProductionPerHour)
		}
	}
	if len(values) == 0 || window <= 0 {
		return decimal.Zero
	}
	if len(values) > window {
		values = values[len(values)-window:]
	}
	return meanOf(values)
}

// FixedHeadcounts returns the finishing and machine headcounts of the last
// capacity row. ok is false when either is missing.
func FixedHeadcounts(capacity []domain.CapacityRecord) (finishing, machine int, ok bool) {
	if len(capacity) == 0 {
		return 0, 0, false
	}
	last := capacity[len(capacity)-1]
	if last.FinishingHeadcount == nil || last.MachineOperators == nil {
		return 0, 0, false
	}
	return int(*last.FinishingHeadcount), int(*last.MachineOperators), true
}

// ProjectionMonths returns the n calendar months following the latest
// delivery in records.
func ProjectionMonths(records []domain.ProductionRecord, n int) []domain.Period {
	if len(records) == 0 || n <= 0 {
		return nil
	}
	latest := records[0].DeliveryDate
	for _, r := range records[1:] {
		if r.DeliveryDate.After(latest) {
			latest = r.DeliveryDate
		}
	}
	start := domain.PeriodOf(latest)
	out := make([]domain.Period, n)
	for i := range out {
		out[i] = start.AddMonths(i + 1)
	}
	return out
}

// ProductivityFactor scales productivity down when the projected difficulty
// exceeds the historical one. Easier months never raise it above 1.
func ProductivityFactor(historical, projected decimal.Decimal) decimal.Decimal {
	if projected.GreaterThan(historical) {
		return historical.Div(projected)
	}
	return decimal.NewFromInt(1)
}

// Baseline is everything a projected month needs from history.
type Baseline struct {
	HistoricalDifficulty decimal.Decimal `json:"historical_difficulty"`
	HourlyProductivity   decimal.Decimal `json:"hourly_productivity"`
	FinishingHeadcount   int             `json:"finishing_headcount"`
	MachineOperators     int             `json:"machine_operators"`
	Rates                LaborRates      `json:"labor_rates"`
	Overheads            Overheads       `json:"overheads"`
	Months               []domain.Period `json:"months"`
	Warnings             []string        `json:"warnings,omitempty"`
}

// History is the input of a baseline.
type History struct {
	// Records is the filtered working set.
	Records  []domain.ProductionRecord
	Capacity []domain.CapacityRecord
	Sectors  map[domain.Sector]*domain.SectorCostTable
}

// NewBaseline derives the baseline. It fails with ErrInsufficientData when
// the working set is empty or the labor table is unavailable.
func NewBaseline(h History, p Params) (*Baseline, error) {
	if len(h.Records) == 0 {
		return nil, fmt.Errorf("%w: no orders in the working set", ErrInsufficientData)
	}
	rates, ok := LatestLaborRates(h.Sectors[domain.SectorLabor])
	if !ok {
		return nil, fmt.Errorf("%w: labor costs unavailable", ErrInsufficientData)
	}

	b := &Baseline{
		HistoricalDifficulty: HistoricalDifficulty(aggregate.PeriodTotals(h.Records), p.HistoryWindow),
		HourlyProductivity:   BaselineProductivity(h.Capacity, p.HistoryWindow),
		Rates:                rates,
		Overheads: Overheads{
			Planning:      SectorOverhead(h.Sectors[domain.SectorPlanning], p.HistoryWindow),
			PreProduction: SectorOverhead(h.Sectors[domain.SectorPreProduction], p.HistoryWindow),
			Warehousing:   SectorOverhead(h.Sectors[domain.SectorWarehousing], p.HistoryWindow),
		},
		Months: ProjectionMonths(h.Records, p.Months),
	}

	finishing, machine, ok := FixedHeadcounts(h.Capacity)
	if !ok {
		finishing, machine = p.DefaultFinishing, p.DefaultMachine
		b.Warnings = append(b.Warnings, fmt.Sprintf(
			"Não foi possível carregar equipe fixa; usando %d na finalização e %d operadores de máquina", finishing, machine))
	}
	b.FinishingHeadcount, b.MachineOperators = finishing, machine
	return b, nil
}

func meanOf(values []float64) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}
