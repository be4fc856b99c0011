package domain

import (
	"github.com/shopspring/decimal"
)

// Component identifies one part of a composed product.
type Component string

const (
	ComponentCover     Component = "capa"
	ComponentCore      Component = "miolo"
	ComponentEndpaper  Component = "guarda"
	ComponentAccessory Component = "acessorios"
)

// Components lists the component usage tables in composition order.
var Components = []Component{ComponentCover, ComponentCore, ComponentEndpaper, ComponentAccessory}

// PaperPurchase is one purchase of a paper stock.
type PaperPurchase struct {
	Paper  string          `json:"paper"`
	Sheets decimal.Decimal `json:"sheets"`
	Value  decimal.Decimal `json:"value"`
}

// ComponentUsage states how much of a material one unit of a product
// consumes for a component, and the printing cost of that component.
type ComponentUsage struct {
	Component       Component       `json:"component"`
	Product         string          `json:"product"`
	Material        string          `json:"material"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	PrintingCost    decimal.Decimal `json:"printing_cost"`
}

// CatalogItem is a directly purchased material with a fixed unit cost.
type CatalogItem struct {
	Item     string          `json:"item"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// WireBinding is one row of the wire-binding lookup. A unit whose total
// sheet count falls in [MinSheets, MaxSheets] uses this binding.
type WireBinding struct {
	MinSheets   decimal.Decimal `json:"min_sheets"`
	MaxSheets   decimal.Decimal `json:"max_sheets"`
	Description string          `json:"description"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// Contains reports whether sheets falls inside the binding range.
func (w WireBinding) Contains(sheets decimal.Decimal) bool {
	return sheets.GreaterThanOrEqual(w.MinSheets) && sheets.LessThanOrEqual(w.MaxSheets)
}

// CompositionTables is the loaded input of the composition tool.
type CompositionTables struct {
	Papers  []PaperPurchase                `json:"papers"`
	Usage   map[Component][]ComponentUsage `json:"usage"`
	Catalog []CatalogItem                  `json:"catalog"`
	Wire    []WireBinding                  `json:"wire"`
}

// Products returns the distinct products referenced by any usage table,
// in first-seen order.
func (t *CompositionTables) Products() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, c := range Components {
		for _, u := range t.Usage[c] {
			if _, ok := seen[u.Product]; ok {
				continue
			}
			seen[u.Product] = struct{}{}
			out = append(out, u.Product)
		}
	}
	return out
}

// QuoteRequest asks for the unit cost of a product.
type QuoteRequest struct {
	Product       string `json:"product" validate:"required"`
	OrderQuantity int    `json:"order_quantity" validate:"min=1"`
}

// MaterialSource tells where a material's unit cost was found.
type MaterialSource string

const (
	MaterialPaper   MaterialSource = "paper"
	MaterialCatalog MaterialSource = "catalog"
	MaterialMissing MaterialSource = "missing"
)

// CompositionLine is the cost contribution of one usage row.
type CompositionLine struct {
	Component    Component       `json:"component"`
	Material     string          `json:"material"`
	Source       MaterialSource  `json:"source"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	PrintingCost decimal.Decimal `json:"printing_cost"`
	Total        decimal.Decimal `json:"total"`
}

// Quote is the composed unit cost of a product.
type Quote struct {
	Product       string            `json:"product"`
	OrderQuantity int               `json:"order_quantity"`
	Lines         []CompositionLine `json:"lines"`
	TotalSheets   decimal.Decimal   `json:"total_sheets"`
	Wire          *WireBinding      `json:"wire,omitempty"`
	UnitCost      decimal.Decimal   `json:"unit_cost"`
	OrderTotal    decimal.Decimal   `json:"order_total"`
	Warnings      []string          `json:"warnings,omitempty"`
}
