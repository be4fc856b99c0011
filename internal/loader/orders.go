package loader

import (
	"strings"
	"time"

	"prodboard/pkg/contracts/domain"
)

// OrdersRename maps orders source headers to canonical column names.
var OrdersRename = map[string]string{
	"DATA DE ENTREGA":      "DATA_DE_ENTREGA",
	"ANO-MES entrega":      "MES_ANO",
	"MES ENTREGA":          "MES_ENTREGA",
	"ANO ENTREGA":          "ANO_ENTREGA",
	"CATEGORIA CONVERSOR":  "CATEGORIA_CONVERSOR",
	"FAMILIA1":             "FAMILIA",
	"QUANTIDADE PONDERADA": "QTD_PONDERADA",
	"OS UNICA":             "OS_UNICA",
	"CODIGO/CLIENTE":       "CODIGO_CLIENTE",
}

// OrdersRequired lists the columns the orders source must carry after
// renaming.
var OrdersRequired = []string{
	"DATA_DE_ENTREGA", "QTD", "QTD_PONDERADA", "MES_ENTREGA", "ANO_ENTREGA",
	"RESPONSAVEL", "EQUIPE", "FAMILIA", "CATEGORIA_CONVERSOR", "CANAL", "PRODUTO",
}

// OrdersResult is the parsed orders table.
type OrdersResult struct {
	Records []domain.ProductionRecord
	// Columns is the renamed header, used by the diagnostic summary.
	Columns []string
	// Dropped counts rows excluded for missing fields or quantity <= 0.
	Dropped int
}

// ParseOrders converts the orders table into production records.
func ParseOrders(t *Table) (*OrdersResult, error) {
	if err := t.Require(OrdersRequired...); err != nil {
		return nil, err
	}

	res := &OrdersResult{
		Records: make([]domain.ProductionRecord, 0, len(t.Rows)),
		Columns: append([]string(nil), t.Header...),
	}
	for _, row := range t.Rows {
		rec, ok := parseOrder(t, row)
		if !ok {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func parseOrder(t *Table, row []string) (domain.ProductionRecord, bool) {
	qty, ok := ParseNumber(t.Cell(row, "QTD"))
	if !ok || qty <= 0 {
		return domain.ProductionRecord{}, false
	}
	date, ok := ParseDate(t.Cell(row, "DATA_DE_ENTREGA"))
	if !ok {
		return domain.ProductionRecord{}, false
	}
	responsible := t.Cell(row, "RESPONSAVEL")
	team := t.Cell(row, "EQUIPE")
	if responsible == "" || team == "" {
		return domain.ProductionRecord{}, false
	}

	// Weighted quantity is not required; a blank cell counts as zero.
	weighted, _ := ParseNumber(t.Cell(row, "QTD_PONDERADA"))

	category := strings.ToUpper(t.Cell(row, "CATEGORIA_CONVERSOR"))
	if category == "" {
		category = "N/A"
	}

	return domain.ProductionRecord{
		DeliveryDate:     date,
		Year:             intOr(t.Cell(row, "ANO_ENTREGA"), date.Year()),
		Month:            monthOr(t.Cell(row, "MES_ENTREGA"), date.Month()),
		Period:           domain.PeriodOf(date),
		Quantity:         qty,
		WeightedQuantity: weighted,
		Family:           strings.ToUpper(t.Cell(row, "FAMILIA")),
		Category:         category,
		Responsible:      responsible,
		Team:             team,
		Channel:          t.Cell(row, "CANAL"),
		Product:          t.Cell(row, "PRODUTO"),
		OrderID:          t.Cell(row, "OS_UNICA"),
		ClientCode:       t.Cell(row, "CODIGO_CLIENTE"),
		Status:           t.Cell(row, "STATUS"),
	}, true
}

func intOr(s string, fallback int) int {
	if v, ok := ParseNumber(s); ok && v > 0 {
		return int(v)
	}
	return fallback
}

func monthOr(s string, fallback time.Month) int {
	if v, ok := ParseNumber(s); ok && v >= 1 && v <= 12 {
		return int(v)
	}
	return int(fallback)
}
