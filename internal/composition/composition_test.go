package composition

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prodboard/internal/errors"
	"prodboard/internal/infrastructure"
	"prodboard/internal/shared/testutil"
	"prodboard/pkg/contracts/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func tables() *domain.CompositionTables {
	return &domain.CompositionTables{
		Papers: []domain.PaperPurchase{
			{Paper: "Couche 150g", Sheets: d("1000"), Value: d("400")},
			{Paper: "COUCHE 150G", Sheets: d("1000"), Value: d("600")},
			{Paper: "Offset 90g", Sheets: d("500"), Value: d("100")},
		},
		Usage: map[domain.Component][]domain.ComponentUsage{
			domain.ComponentCover: {
				{Component: domain.ComponentCover, Product: "AG-001", Material: "Couche 150g", QuantityPerUnit: d("2"), PrintingCost: d("0.30")},
			},
			domain.ComponentCore: {
				{Component: domain.ComponentCore, Product: "AG-001", Material: "Offset 90g", QuantityPerUnit: d("48"), PrintingCost: d("1.20")},
				{Component: domain.ComponentCore, Product: "CD-002", Material: "Offset 90g", QuantityPerUnit: d("500"), PrintingCost: d("0")},
			},
			domain.ComponentAccessory: {
				{Component: domain.ComponentAccessory, Product: "ag-001", Material: "Elastico", QuantityPerUnit: d("1")},
				{Component: domain.ComponentAccessory, Product: "AG-001", Material: "Fita cetim", QuantityPerUnit: d("1"), PrintingCost: d("0.05")},
			},
		},
		Catalog: []domain.CatalogItem{
			{Item: "ELASTICO", UnitCost: d("0.45")},
			{Item: "Elastico", UnitCost: d("9.99")},
		},
		Wire: []domain.WireBinding{
			{MinSheets: d("1"), MaxSheets: d("40"), Description: "Wire 1/4", UnitCost: d("0.60")},
			{MinSheets: d("41"), MaxSheets: d("80"), Description: "Wire 5/16", UnitCost: d("0.80")},
		},
	}
}

func TestPaperUnitCosts(t *testing.T) {
	costs := PaperUnitCosts(tables().Papers)
	assertDec(t, "0.5", costs["COUCHE 150G"])
	assertDec(t, "0.2", costs["OFFSET 90G"])

	none := PaperUnitCosts([]domain.PaperPurchase{{Paper: "X", Sheets: decimal.Zero, Value: d("10")}})
	assert.Empty(t, none)
}

func TestFindWire(t *testing.T) {
	w, ok := FindWire(tables().Wire, d("40"))
	require.True(t, ok)
	assert.Equal(t, "Wire 1/4", w.Description)

	w, ok = FindWire(tables().Wire, d("41"))
	require.True(t, ok)
	assert.Equal(t, "Wire 5/16", w.Description)

	_, ok = FindWire(tables().Wire, d("81"))
	assert.False(t, ok)
}

func TestQuote(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	c := NewComposer(nil, logger)

	q, err := c.Quote(context.Background(), tables(), domain.QuoteRequest{Product: " ag-001 ", OrderQuantity: 100})
	require.NoError(t, err)

	require.Len(t, q.Lines, 4)
	assert.Equal(t, domain.ComponentCover, q.Lines[0].Component)
	assert.Equal(t, domain.MaterialPaper, q.Lines[0].Source)
	assertDec(t, "1.3", q.Lines[0].Total)  // 2 x 0.5 + 0.30
	assertDec(t, "10.8", q.Lines[1].Total) // 48 x 0.2 + 1.20
	assert.Equal(t, domain.MaterialCatalog, q.Lines[2].Source)
	assertDec(t, "0.45", q.Lines[2].UnitCost)
	assert.Equal(t, domain.MaterialMissing, q.Lines[3].Source)
	assertDec(t, "0.05", q.Lines[3].Total)

	assertDec(t, "50", q.TotalSheets)
	require.NotNil(t, q.Wire)
	assert.Equal(t, "Wire 5/16", q.Wire.Description)

	assertDec(t, "13.4", q.UnitCost) // 1.3 + 10.8 + 0.45 + 0.05 + 0.80
	assertDec(t, "1340", q.OrderTotal)
	require.Len(t, q.Warnings, 1)
	assert.Contains(t, q.Warnings[0], "Fita cetim")

	assert.True(t, handler.ContainsMessage("quote computed"))
}

func TestQuote_WireMiss(t *testing.T) {
	c := NewComposer(nil, nil)
	q, err := c.Quote(context.Background(), tables(), domain.QuoteRequest{Product: "CD-002", OrderQuantity: 1})
	require.NoError(t, err)

	assert.Nil(t, q.Wire)
	assertDec(t, "100", q.UnitCost)
	require.Len(t, q.Warnings, 1)
	assert.Contains(t, q.Warnings[0], "500")
}

func TestQuote_Errors(t *testing.T) {
	c := NewComposer(nil, nil)
	ctx := context.Background()

	_, err := c.Quote(ctx, nil, domain.QuoteRequest{Product: "AG-001", OrderQuantity: 1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoadDegraded))

	_, err = c.Quote(ctx, tables(), domain.QuoteRequest{Product: "AG-001", OrderQuantity: 0})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = c.Quote(ctx, tables(), domain.QuoteRequest{Product: "NOPE", OrderQuantity: 1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestQuote_Metrics(t *testing.T) {
	metrics, err := infrastructure.CreateBusinessMetrics(nil)
	require.NoError(t, err)

	c := NewComposer(metrics, nil)
	_, err = c.Quote(context.Background(), tables(), domain.QuoteRequest{Product: "AG-001", OrderQuantity: 1})
	assert.NoError(t, err)
}
