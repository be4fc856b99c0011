package loader

import (
	"strings"
	"time"

	"prodboard/pkg/contracts/domain"
)

// CapacityRename maps capacity log headers to canonical column names.
var CapacityRename = map[string]string{
	"MES":                       "MES_ANO",
	"DIAS_UTEIS_TRABALHADOS":    "DIAS_UTEIS",
	"SABADOS_TRABALHADOS":       "SABADOS",
	"HORAS EXTRAS TRABALHADAS":  "HE_DIA",
	"FUNCIONARIOS_MESA":         "FUNC_MESA",
	"PRODUCAO_BRUTA":            "PROD",
	"PRODUTOS_HORA_FUNCIONARIO": "PROD_HORA",
}

// CapacityRequired lists the mandatory capacity columns after renaming.
var CapacityRequired = []string{"MES_ANO", "FUNC_MESA", "PROD", "PROD_HORA"}

// Optional fixed-team columns of the capacity log.
const (
	ColumnFinishing = "FUNCIONARIOS_FINALIZACAO"
	ColumnMachine   = "OPERADORES_MAQUINA"
)

var capacityPeriodLayouts = []string{domain.PeriodLayout, "01/2006", "2006/01"}

// ParseCapacity converts the capacity log into month records, in source order.
func ParseCapacity(t *Table) ([]domain.CapacityRecord, error) {
	if err := t.Require(CapacityRequired...); err != nil {
		return nil, err
	}

	out := make([]domain.CapacityRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		label := t.Cell(row, "MES_ANO")
		if label == "" && isBlank(row) {
			continue
		}
		out = append(out, domain.CapacityRecord{
			Label:              label,
			Period:             parseCapacityPeriod(label),
			WorkingDays:        floatPtr(t.Cell(row, "DIAS_UTEIS")),
			Saturdays:          floatPtr(t.Cell(row, "SABADOS")),
			OvertimePerDay:     floatPtr(t.Cell(row, "HE_DIA")),
			TableHeadcount:     floatPtr(t.Cell(row, "FUNC_MESA")),
			GrossProduction:    floatPtr(t.Cell(row, "PROD")),
			ProductionPerHour:  floatPtr(t.Cell(row, "PROD_HORA")),
			FinishingHeadcount: floatPtr(t.Cell(row, ColumnFinishing)),
			MachineOperators:   floatPtr(t.Cell(row, ColumnMachine)),
		})
	}
	return out, nil
}

func parseCapacityPeriod(label string) domain.Period {
	for _, layout := range capacityPeriodLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return domain.PeriodOf(t)
		}
	}
	return domain.Period{}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
