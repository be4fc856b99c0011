package twin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"prodboard/internal/aggregate"
	"prodboard/pkg/contracts/domain"
)

// ErrInsufficientData reports that no projection can be made for the
// working set.
var ErrInsufficientData = errors.New("insufficient data for projection")

// CostBasis selects the cost numerator of the cost per unit.
type CostBasis string

const (
	CostPayroll CostBasis = "payroll"
	CostTotal   CostBasis = "total"
)

// Basis selects the numerator and denominator of the cost per unit.
type Basis struct {
	Cost   CostBasis     `json:"cost" validate:"omitempty,oneof=payroll total" jsonschema:"enum=payroll,enum=total,default=total"`
	Metric domain.Metric `json:"metric" validate:"omitempty,oneof=raw weighted" jsonschema:"enum=raw,enum=weighted,default=raw"`
}

// DefaultBasis divides the total industry cost by the raw quantity.
func DefaultBasis() Basis {
	return Basis{Cost: CostTotal, Metric: domain.MetricRaw}
}

func (b Basis) normalized() Basis {
	if b.Cost == "" {
		b.Cost = CostTotal
	}
	if b.Metric == "" {
		b.Metric = domain.MetricRaw
	}
	return b
}

// CostPerUnit divides cost by quantity and defines x/0 as 0.
func CostPerUnit(cost, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return cost.Div(quantity)
}

// DefaultInput is the starting workforce of a projected month.
func DefaultInput(historicalDifficulty decimal.Decimal) domain.CostProjectionInput {
	difficulty := historicalDifficulty.Round(3)
	difficulty = decimal.Max(decimal.NewFromFloat(0.5), decimal.Min(difficulty, decimal.NewFromInt(2)))
	return domain.CostProjectionInput{
		TableHeadcount: 50,
		CLTHeadcount:   40,
		WorkingDays:    22,
		OvertimeHours:  2,
		Saturdays:      2,
		Difficulty:     difficulty.InexactFloat64(),
	}
}

// Projector computes Digital Twin projections.
type Projector struct {
	params Params
	logger *slog.Logger
}

// NewProjector creates a projector with the given constants.
func NewProjector(params Params, logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{
		params: params,
		logger: logger.With(slog.String("component", "twin")),
	}
}

// Params returns the projector constants.
func (p *Projector) Params() Params {
	return p.params
}

// ProjectMonth computes one projected month from the baseline.
func (p *Projector) ProjectMonth(b *Baseline, period domain.Period, in domain.CostProjectionInput, basis Basis) domain.CostProjectionResult {
	basis = basis.normalized()
	prm := p.params

	clt := decimal.NewFromInt(int64(in.CLTHeadcount))
	freelancers := decimal.NewFromInt(int64(in.Freelancers()))
	days := decimal.NewFromInt(int64(in.WorkingDays))
	overtime := decimal.NewFromFloat(in.OvertimeHours)
	saturdays := decimal.NewFromInt(int64(in.Saturdays))
	difficulty := decimal.NewFromFloat(in.Difficulty)

	factor := ProductivityFactor(b.HistoricalDifficulty, difficulty)
	productivity := b.HourlyProductivity.Mul(factor)

	hours := domain.LaborHours{
		CLTTable:        clt.Mul(days).Mul(prm.DailyHours.Add(overtime)),
		FreelancerTable: freelancers.Mul(days).Mul(prm.DailyHours),
		Saturday:        clt.Mul(saturdays).Mul(prm.SaturdayHours),
	}
	production := domain.ProductionBreakdown{
		CLTTable:   hours.CLTTable.Mul(productivity),
		Freelancer: hours.FreelancerTable.Mul(productivity).Mul(prm.FreelancerYield),
		Saturday:   hours.Saturday.Mul(productivity),
	}
	raw := decimal.Sum(production.CLTTable, production.Freelancer, production.Saturday).Truncate(0)
	weighted := raw.Mul(difficulty).Truncate(0)

	payroll := p.payroll(b, in)
	payrollCost := payroll.Total()
	totalCost := payrollCost.Add(b.Overheads.Total())

	res := domain.CostProjectionResult{
		Period:                period,
		Input:                 in,
		FreelancerHeadcount:   in.Freelancers(),
		ProductivityFactor:    factor,
		EffectiveProductivity: productivity,
		Hours:                 hours,
		Production:            production,
		RawProduction:         raw.IntPart(),
		WeightedProduction:    weighted.IntPart(),
		Payroll:               payroll,
		PayrollCost:           payrollCost,
		TotalCost:             totalCost,
	}
	res.CostPerUnit = CostPerUnit(basis.cost(payrollCost, totalCost), basis.quantity(raw, weighted))
	return res
}

func (p *Projector) payroll(b *Baseline, in domain.CostProjectionInput) domain.PayrollBreakdown {
	prm := p.params

	clt := decimal.NewFromInt(int64(in.CLTHeadcount))
	freelancers := decimal.NewFromInt(int64(in.Freelancers()))
	days := decimal.NewFromInt(int64(in.WorkingDays))
	overtime := decimal.NewFromFloat(in.OvertimeHours)
	machineOvertime := decimal.NewFromFloat(in.MachineOvertimeHours)
	saturdays := decimal.NewFromInt(int64(in.Saturdays))
	finishing := decimal.NewFromInt(int64(b.FinishingHeadcount))
	machine := decimal.NewFromInt(int64(b.MachineOperators))

	tableOT := prm.tableOvertimeRate()

	freelancerFee := freelancers.Mul(prm.FreelancerDailyRate).Mul(days)
	if in.FreelancersOnSaturdays {
		freelancerFee = freelancerFee.Add(freelancers.Mul(prm.FreelancerDailyRate).Mul(saturdays))
	}

	baseSalaries := decimal.Sum(
		clt.Mul(prm.TableSalary),
		finishing.Mul(prm.FinishingSalary),
		machine.Mul(prm.MachineSalary),
	)
	twelve := decimal.NewFromInt(12)

	return domain.PayrollBreakdown{
		TableSalaries:        clt.Mul(prm.TableSalary),
		TableMealVoucher:     clt.Mul(prm.MealVoucherPerDay).Mul(days),
		TableOvertime:        clt.Mul(overtime).Mul(days).Mul(tableOT),
		TableSaturday:        clt.Mul(saturdays).Mul(prm.SaturdayHours).Mul(tableOT),
		Freelancers:          freelancerFee,
		FinishingSalaries:    finishing.Mul(prm.FinishingSalary),
		FinishingMealVoucher: finishing.Mul(prm.MealVoucherPerDay).Mul(days),
		FinishingOvertime:    finishing.Mul(overtime).Mul(days).Mul(tableOT),
		MachineSalaries:      machine.Mul(prm.MachineSalary),
		MachineMealVoucher:   machine.Mul(prm.MealVoucherPerDay).Mul(days),
		MachineOvertime:      machine.Mul(machineOvertime).Mul(days).Mul(prm.machineOvertimeRate()),
		HealthPlan:           b.Rates.HealthPlan,
		Bonus:                b.Rates.Bonus,
		FGTS:                 baseSalaries.Mul(prm.FGTSRate).Add(b.Rates.FGTS),
		Vacation13th:         b.Rates.Vacation13th.Div(twelve),
		Severance:            b.Rates.FGTSSeverance.Div(twelve),
		TransitVoucher:       b.Rates.TransitVoucher,
		Contractor:           b.Rates.Contractor,
		TransitDiscount:      b.Rates.TransitDiscount,
	}
}

// Projection is the Digital Twin section of a view.
type Projection struct {
	Basis    Basis                         `json:"basis"`
	Baseline *Baseline                     `json:"baseline"`
	Months   []domain.CostProjectionResult `json:"months"`
	Series   []SeriesPoint                 `json:"series"`
}

// Project derives the baseline and projects every month. Inputs are matched
// to months positionally; months without an input use DefaultInput.
func (p *Projector) Project(ctx context.Context, h History, inputs []domain.CostProjectionInput, basis Basis) (*Projection, error) {
	_, span := otel.Tracer("twin").Start(ctx, "twin.project")
	defer span.End()

	basis = basis.normalized()
	b, err := NewBaseline(h, p.params)
	if err != nil {
		return nil, err
	}
	if len(inputs) > len(b.Months) {
		return nil, fmt.Errorf("got %d projection inputs for %d months", len(inputs), len(b.Months))
	}

	out := &Projection{Basis: basis, Baseline: b, Months: make([]domain.CostProjectionResult, len(b.Months))}
	for i, period := range b.Months {
		in := DefaultInput(b.HistoricalDifficulty)
		if i < len(inputs) {
			in = inputs[i]
		}
		out.Months[i] = p.ProjectMonth(b, period, in, basis)
	}
	out.Series = CombinedSeries(h, b, out.Months, basis)

	span.SetAttributes(
		attribute.Int("months", len(out.Months)),
		attribute.String("historical_difficulty", b.HistoricalDifficulty.StringFixed(3)),
	)
	p.logger.DebugContext(ctx, "projection computed",
		slog.Int("months", len(out.Months)),
		slog.String("hourly_productivity", b.HourlyProductivity.StringFixed(2)),
		slog.Int("warnings", len(b.Warnings)),
	)
	return out, nil
}

// Series point kinds.
const (
	KindActual    = "real"
	KindProjected = "projected"
)

// SeriesPoint is one month of the cost per unit chart.
type SeriesPoint struct {
	Period      domain.Period   `json:"period"`
	Kind        string          `json:"kind"`
	Raw         decimal.Decimal `json:"raw"`
	Weighted    decimal.Decimal `json:"weighted"`
	PayrollCost decimal.Decimal `json:"payroll_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

// CombinedSeries merges every labor month carrying a total with the
// projected months, ordered by month with actuals first on a tie.
// Historical quantities come from the working set and are zero for months
// without orders.
func CombinedSeries(h History, b *Baseline, projected []domain.CostProjectionResult, basis Basis) []SeriesPoint {
	basis = basis.normalized()

	quantities := make(map[domain.Period]aggregate.PeriodTotal)
	for _, t := range aggregate.PeriodTotals(h.Records) {
		quantities[t.Period] = t
	}

	overheads := b.Overheads.Total()
	out := []SeriesPoint{}
	if labor := h.Sectors[domain.SectorLabor]; labor != nil {
		for _, m := range labor.Months {
			total, ok := m.Value(domain.LineTotal)
			if !ok {
				continue
			}
			q := quantities[m.Period]
			pt := SeriesPoint{
				Period:      m.Period,
				Kind:        KindActual,
				Raw:         decimal.NewFromFloat(q.Raw),
				Weighted:    decimal.NewFromFloat(q.Weighted),
				PayrollCost: decimal.NewFromFloat(total),
			}
			pt.TotalCost = pt.PayrollCost.Add(overheads)
			pt.CostPerUnit = CostPerUnit(basis.cost(pt.PayrollCost, pt.TotalCost), basis.quantity(pt.Raw, pt.Weighted))
			out = append(out, pt)
		}
	}
	for _, r := range projected {
		out = append(out, SeriesPoint{
			Period:      r.Period,
			Kind:        KindProjected,
			Raw:         decimal.NewFromInt(r.RawProduction),
			Weighted:    decimal.NewFromInt(r.WeightedProduction),
			PayrollCost: r.PayrollCost,
			TotalCost:   r.TotalCost,
			CostPerUnit: r.CostPerUnit,
		})
	}

	slices.SortStableFunc(out, func(a, b SeriesPoint) int {
		switch {
		case a.Period.Before(b.Period):
			return -1
		case b.Period.Before(a.Period):
			return 1
		}
		return 0
	})
	return out
}

// cost returns the numerator the basis selects.
func (b Basis) cost(payroll, total decimal.Decimal) decimal.Decimal {
	if b.Cost == CostPayroll {
		return payroll
	}
	return total
}

// quantity returns the denominator the basis selects.
func (b Basis) quantity(raw, weighted decimal.Decimal) decimal.Decimal {
	if b.Metric == domain.MetricWeighted {
		return weighted
	}
	return raw
}
