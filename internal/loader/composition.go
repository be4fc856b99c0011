package loader

import (
	"github.com/shopspring/decimal"

	"prodboard/pkg/contracts/domain"
)

// Column names of the composition sources.
const (
	ColPaper        = "PAPEL"
	ColSheets       = "QTD_FOLHAS"
	ColValue        = "VALOR"
	ColProduct      = "PRODUTO"
	ColMaterial     = "MATERIAL"
	ColQuantity     = "QTD"
	ColPrintingCost = "CUSTO_IMPRESSAO"
	ColItem         = "ITEM"
	ColUnitCost     = "CUSTO_UNITARIO"
	ColMinSheets    = "FOLHAS_MIN"
	ColMaxSheets    = "FOLHAS_MAX"
	ColDescription  = "DESCRICAO"
	ColWireCost     = "CUSTO"
)

// CompositionRename maps header spellings seen in the purchase sheets to
// canonical names.
var CompositionRename = map[string]string{
	"QTD FOLHAS":      ColSheets,
	"FOLHAS":          ColSheets,
	"VALOR TOTAL":     ColValue,
	"CUSTO IMPRESSAO": ColPrintingCost,
	"CUSTO UNITARIO":  ColUnitCost,
	"FOLHAS MIN":      ColMinSheets,
	"FOLHAS MAX":      ColMaxSheets,
	"WIRE":            ColDescription,
	"QUANTIDADE":      ColQuantity,
}

// ParsePapers reads paper purchases. Rows without a paper name or with an
// unparsable sheet count or value are skipped.
func ParsePapers(t *Table) ([]domain.PaperPurchase, error) {
	if err := t.Require(ColPaper, ColSheets, ColValue); err != nil {
		return nil, err
	}
	var out []domain.PaperPurchase
	for _, row := range t.Rows {
		paper := t.Cell(row, ColPaper)
		sheets, okS := ParseDecimal(t.Cell(row, ColSheets))
		value, okV := ParseDecimal(t.Cell(row, ColValue))
		if paper == "" || !okS || !okV {
			continue
		}
		out = append(out, domain.PaperPurchase{Paper: paper, Sheets: sheets, Value: value})
	}
	return out, nil
}

// ParseUsage reads one component usage table. A blank printing cost is zero.
func ParseUsage(c domain.Component, t *Table) ([]domain.ComponentUsage, error) {
	if err := t.Require(ColProduct, ColMaterial, ColQuantity); err != nil {
		return nil, err
	}
	var out []domain.ComponentUsage
	for _, row := range t.Rows {
		product := t.Cell(row, ColProduct)
		qty, ok := ParseDecimal(t.Cell(row, ColQuantity))
		if product == "" || !ok {
			continue
		}
		printing, _ := ParseDecimal(t.Cell(row, ColPrintingCost))
		out = append(out, domain.ComponentUsage{
			Component:       c,
			Product:         product,
			Material:        t.Cell(row, ColMaterial),
			QuantityPerUnit: qty,
			PrintingCost:    printing,
		})
	}
	return out, nil
}

// ParseCatalog reads the direct-purchase catalog.
func ParseCatalog(t *Table) ([]domain.CatalogItem, error) {
	if err := t.Require(ColItem, ColUnitCost); err != nil {
		return nil, err
	}
	var out []domain.CatalogItem
	for _, row := range t.Rows {
		item := t.Cell(row, ColItem)
		cost, ok := ParseDecimal(t.Cell(row, ColUnitCost))
		if item == "" || !ok {
			continue
		}
		out = append(out, domain.CatalogItem{Item: item, UnitCost: cost})
	}
	return out, nil
}

// ParseWire reads the wire-binding lookup. A blank maximum is unbounded.
func ParseWire(t *Table) ([]domain.WireBinding, error) {
	if err := t.Require(ColMinSheets, ColMaxSheets, ColWireCost); err != nil {
		return nil, err
	}
	unbounded := decimal.New(1, 9)

	var out []domain.WireBinding
	for _, row := range t.Rows {
		lo, okLo := ParseDecimal(t.Cell(row, ColMinSheets))
		cost, okCost := ParseDecimal(t.Cell(row, ColWireCost))
		if !okLo || !okCost {
			continue
		}
		hi, ok := ParseDecimal(t.Cell(row, ColMaxSheets))
		if !ok {
			hi = unbounded
		}
		out = append(out, domain.WireBinding{
			MinSheets:   lo,
			MaxSheets:   hi,
			Description: t.Cell(row, ColDescription),
			UnitCost:    cost,
		})
	}
	return out, nil
}
