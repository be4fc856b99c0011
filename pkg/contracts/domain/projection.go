package domain

import (
	"github.com/shopspring/decimal"
)

// CostProjectionInput holds the workforce parameters a user enters for one
// projected month.
type CostProjectionInput struct {
	// TableHeadcount is the total assembly-table headcount (CLT + freelancers).
	TableHeadcount int `json:"table_headcount" validate:"min=1" jsonschema:"minimum=1,default=50"`
	// CLTHeadcount is the permanent subset of TableHeadcount.
	CLTHeadcount int `json:"clt_headcount" validate:"min=0,ltefield=TableHeadcount" jsonschema:"minimum=0,default=40"`
	WorkingDays  int `json:"working_days" validate:"min=1" jsonschema:"minimum=1,default=22"`
	// OvertimeHours is the daily overtime per CLT table worker.
	OvertimeHours float64 `json:"overtime_hours" validate:"min=0,max=8" jsonschema:"minimum=0,maximum=8,default=2"`
	Saturdays     int     `json:"saturdays" validate:"min=0,max=5" jsonschema:"minimum=0,maximum=5,default=2"`
	// MachineOvertimeHours is the daily overtime per machine operator.
	MachineOvertimeHours   float64 `json:"machine_overtime_hours" validate:"min=0,max=8" jsonschema:"minimum=0,maximum=8,default=0"`
	FreelancersOnSaturdays bool    `json:"freelancers_on_saturdays" jsonschema:"default=false"`
	// Difficulty is the projected weighted/raw ratio.
	Difficulty float64 `json:"difficulty" validate:"min=0.5,max=2" jsonschema:"minimum=0.5,maximum=2"`
}

// Freelancers returns the non-CLT part of the table headcount.
func (in CostProjectionInput) Freelancers() int {
	return in.TableHeadcount - in.CLTHeadcount
}

// LaborHours splits the projected labor hours of a month.
type LaborHours struct {
	CLTTable        decimal.Decimal `json:"clt_table"`
	FreelancerTable decimal.Decimal `json:"freelancer_table"`
	Saturday        decimal.Decimal `json:"saturday"`
}

// Total is the sum of all labor hours.
func (h LaborHours) Total() decimal.Decimal {
	return h.CLTTable.Add(h.FreelancerTable).Add(h.Saturday)
}

// ProductionBreakdown splits projected raw production by labor source,
// before truncation to whole units.
type ProductionBreakdown struct {
	CLTTable   decimal.Decimal `json:"clt_table"`
	Freelancer decimal.Decimal `json:"freelancer"`
	Saturday   decimal.Decimal `json:"saturday"`
}

// PayrollBreakdown itemizes the projected direct-labor (MOD) cost.
type PayrollBreakdown struct {
	TableSalaries        decimal.Decimal `json:"table_salaries"`
	TableMealVoucher     decimal.Decimal `json:"table_meal_voucher"`
	TableOvertime        decimal.Decimal `json:"table_overtime"`
	TableSaturday        decimal.Decimal `json:"table_saturday"`
	Freelancers          decimal.Decimal `json:"freelancers"`
	FinishingSalaries    decimal.Decimal `json:"finishing_salaries"`
	FinishingMealVoucher decimal.Decimal `json:"finishing_meal_voucher"`
	FinishingOvertime    decimal.Decimal `json:"finishing_overtime"`
	MachineSalaries      decimal.Decimal `json:"machine_salaries"`
	MachineMealVoucher   decimal.Decimal `json:"machine_meal_voucher"`
	MachineOvertime      decimal.Decimal `json:"machine_overtime"`
	HealthPlan           decimal.Decimal `json:"health_plan"`
	Bonus                decimal.Decimal `json:"bonus"`
	FGTS                 decimal.Decimal `json:"fgts"`
	Vacation13th         decimal.Decimal `json:"vacation_13th"`
	Severance            decimal.Decimal `json:"severance"`
	TransitVoucher       decimal.Decimal `json:"transit_voucher"`
	Contractor           decimal.Decimal `json:"contractor"`
	TransitDiscount      decimal.Decimal `json:"transit_discount"`
}

// Total sums every item and subtracts the transit discount.
func (p PayrollBreakdown) Total() decimal.Decimal {
	return decimal.Sum(
		p.TableSalaries, p.TableMealVoucher, p.TableOvertime, p.TableSaturday,
		p.Freelancers,
		p.FinishingSalaries, p.FinishingMealVoucher, p.FinishingOvertime,
		p.MachineSalaries, p.MachineMealVoucher, p.MachineOvertime,
		p.HealthPlan, p.Bonus, p.FGTS, p.Vacation13th, p.Severance,
		p.TransitVoucher, p.Contractor,
	).Sub(p.TransitDiscount)
}

// CostProjectionResult is the derived outcome for one projected month.
// It is recomputed on every request and never stored.
type CostProjectionResult struct {
	Period Period              `json:"period"`
	Input  CostProjectionInput `json:"input"`

	FreelancerHeadcount   int             `json:"freelancer_headcount"`
	ProductivityFactor    decimal.Decimal `json:"productivity_factor"`
	EffectiveProductivity decimal.Decimal `json:"effective_productivity"`

	Hours      LaborHours          `json:"hours"`
	Production ProductionBreakdown `json:"production"`

	RawProduction      int64 `json:"raw_production"`
	WeightedProduction int64 `json:"weighted_production"`

	Payroll     PayrollBreakdown `json:"payroll"`
	PayrollCost decimal.Decimal  `json:"payroll_cost"`
	TotalCost   decimal.Decimal  `json:"total_cost"`
	CostPerUnit decimal.Decimal  `json:"cost_per_unit"`
}
