package domain

import (
	"time"
)

// ProductionRecord is one delivered production order.
//
// Records are built by the loader from the orders source and are immutable
// afterwards: filtering selects records, it never mutates them.
//
// Invariants enforced at load time:
//   - Quantity > 0
//   - DeliveryDate, Year, Responsible and Team are present
type ProductionRecord struct {
	// DeliveryDate is parsed from the dd/mm/yyyy "DATA DE ENTREGA" column.
	DeliveryDate time.Time `json:"delivery_date" csv:"DATA_DE_ENTREGA"`

	// Year and Month come from the "ANO ENTREGA" / "MES ENTREGA" columns and
	// drive the year and month filters.
	Year  int `json:"year" csv:"ANO_ENTREGA"`
	Month int `json:"month" csv:"MES_ENTREGA"`

	// Period is derived from DeliveryDate, never from the source label.
	Period Period `json:"period" csv:"MES_ANO"`

	// Quantity is the raw unit count ("QTD").
	Quantity float64 `json:"quantity" csv:"QTD"`

	// WeightedQuantity is Quantity adjusted by a complexity multiplier.
	// It is not guaranteed to be non-negative; zero when the cell is blank.
	WeightedQuantity float64 `json:"weighted_quantity" csv:"QTD_PONDERADA"`

	Family      string `json:"family" csv:"FAMILIA"`
	Category    string `json:"category" csv:"CATEGORIA_CONVERSOR"`
	Responsible string `json:"responsible" csv:"RESPONSAVEL"`
	Team        string `json:"team" csv:"EQUIPE"`
	Channel     string `json:"channel" csv:"CANAL"`
	Product     string `json:"product" csv:"PRODUTO"`
	OrderID     string `json:"order_id,omitempty" csv:"OS_UNICA"`
	ClientCode  string `json:"client_code,omitempty" csv:"CODIGO_CLIENTE"`
	Status      string `json:"status,omitempty" csv:"STATUS"`
}

// ProductionColumns lists the canonical column names of the production
// table after renaming, in table order.
var ProductionColumns = []string{
	"DATA_DE_ENTREGA", "MES_ANO", "MES_ENTREGA", "ANO_ENTREGA",
	"CATEGORIA_CONVERSOR", "FAMILIA", "QTD", "QTD_PONDERADA",
	"RESPONSAVEL", "EQUIPE", "CANAL", "PRODUTO",
	"OS_UNICA", "CODIGO_CLIENTE", "STATUS",
}

// Metric selects which quantity column an aggregation reads.
type Metric string

const (
	// MetricRaw reads Quantity.
	MetricRaw Metric = "raw"
	// MetricWeighted reads WeightedQuantity.
	MetricWeighted Metric = "weighted"
)

// Value returns the quantity the metric selects from r.
func (m Metric) Value(r ProductionRecord) float64 {
	if m == MetricWeighted {
		return r.WeightedQuantity
	}
	return r.Quantity
}

// Label is the human readable name of the metric.
func (m Metric) Label() string {
	if m == MetricWeighted {
		return "Quantidade Ponderada"
	}
	return "Quantidade Bruta (QTD)"
}

// Column is the canonical source column of the metric.
func (m Metric) Column() string {
	if m == MetricWeighted {
		return "QTD_PONDERADA"
	}
	return "QTD"
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	return m == MetricRaw || m == MetricWeighted
}

// CapacityRecord is one month of the capacity log.
// It is a read-only reference table for baseline productivity.
type CapacityRecord struct {
	// Label is the raw "MES" cell; Period is its parsed form and stays zero
	// when the label is not a "YYYY-MM" month.
	Label  string `json:"label"`
	Period Period `json:"period"`

	WorkingDays       *float64 `json:"working_days,omitempty"`
	Saturdays         *float64 `json:"saturdays,omitempty"`
	OvertimePerDay    *float64 `json:"overtime_per_day,omitempty"`
	TableHeadcount    *float64 `json:"table_headcount,omitempty"`
	GrossProduction   *float64 `json:"gross_production,omitempty"`
	ProductionPerHour *float64 `json:"production_per_hour,omitempty"`

	// FinishingHeadcount and MachineOperators are optional columns; nil when
	// the source does not carry them or the cell is blank.
	FinishingHeadcount *float64 `json:"finishing_headcount,omitempty"`
	MachineOperators   *float64 `json:"machine_operators,omitempty"`
}
