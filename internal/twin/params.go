package twin

import (
	"github.com/shopspring/decimal"

	"prodboard/internal/config"
)

// Params are the payroll and workload constants of the projector.
type Params struct {
	TableSalary         decimal.Decimal
	FinishingSalary     decimal.Decimal
	MachineSalary       decimal.Decimal
	MonthlyBaseHours    decimal.Decimal
	OvertimePremium     decimal.Decimal
	MealVoucherPerDay   decimal.Decimal
	FreelancerDailyRate decimal.Decimal
	FGTSRate            decimal.Decimal
	// FreelancerYield scales freelancer output against CLT output.
	FreelancerYield decimal.Decimal
	DailyHours      decimal.Decimal
	SaturdayHours   decimal.Decimal

	DefaultFinishing int
	DefaultMachine   int
	// Months is the number of projected months.
	Months int
	// HistoryWindow is the trailing window used for difficulty, productivity
	// and overhead averages.
	HistoryWindow int
}

// ParamsFromConfig converts the configured projection constants.
func ParamsFromConfig(cfg config.ProjectionConfig) Params {
	return Params{
		TableSalary:         decimal.NewFromFloat(cfg.TableSalary),
		FinishingSalary:     decimal.NewFromFloat(cfg.FinishingSalary),
		MachineSalary:       decimal.NewFromFloat(cfg.MachineSalary),
		MonthlyBaseHours:    decimal.NewFromFloat(cfg.MonthlyBaseHours),
		OvertimePremium:     decimal.NewFromFloat(cfg.OvertimePremium),
		MealVoucherPerDay:   decimal.NewFromFloat(cfg.MealVoucherPerDay),
		FreelancerDailyRate: decimal.NewFromFloat(cfg.FreelancerDailyRate),
		FGTSRate:            decimal.NewFromFloat(cfg.FGTSRate),
		FreelancerYield:     decimal.NewFromFloat(cfg.FreelancerYield),
		DailyHours:          decimal.NewFromFloat(cfg.DailyHours),
		SaturdayHours:       decimal.NewFromFloat(cfg.SaturdayHours),
		DefaultFinishing:    cfg.DefaultFinishing,
		DefaultMachine:      cfg.DefaultMachine,
		Months:              cfg.Months,
		HistoryWindow:       cfg.HistoryWindow,
	}
}

// DefaultParams returns the constants of the default configuration.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default().Projection)
}

// tableHourly is the hourly cost of a table worker.
func (p Params) tableHourly() decimal.Decimal {
	return p.TableSalary.Div(p.MonthlyBaseHours)
}

func (p Params) machineHourly() decimal.Decimal {
	return p.MachineSalary.Div(p.MonthlyBaseHours)
}

// tableOvertimeRate also applies to finishing overtime.
func (p Params) tableOvertimeRate() decimal.Decimal {
	return p.tableHourly().Mul(p.OvertimePremium)
}

func (p Params) machineOvertimeRate() decimal.Decimal {
	return p.machineHourly().Mul(p.OvertimePremium)
}
