package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodboard/pkg/contracts/domain"
)

func csvTable(t *testing.T, source, content string) *Table {
	t.Helper()
	rows, err := ParseCSV([]byte(content))
	require.NoError(t, err)
	return NewTable(source, rows, false, CompositionRename)
}

func TestParsePapers(t *testing.T) {
	papers, err := ParsePapers(csvTable(t, "papers", "PAPEL,QTD FOLHAS,VALOR\nOffset 90g,1000,\"250,00\"\n,10,10\nCouché,x,10\n"))
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Offset 90g", papers[0].Paper)
	assert.Equal(t, "1000", papers[0].Sheets.String())
	assert.Equal(t, "250", papers[0].Value.String())
}

func TestParseUsage(t *testing.T) {
	usage, err := ParseUsage(domain.ComponentCore, csvTable(t, "miolo", "PRODUTO,MATERIAL,QTD,CUSTO_IMPRESSAO\nAG-001,Offset 90g,48,0.35\nAG-002,Offset 90g,24,\nAG-003,Offset 90g,,1\n"))
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, domain.ComponentCore, usage[0].Component)
	assert.Equal(t, "0.35", usage[0].PrintingCost.String())
	assert.True(t, usage[1].PrintingCost.IsZero())
}

func TestParseCatalog(t *testing.T) {
	items, err := ParseCatalog(csvTable(t, "catalog", "ITEM,CUSTO UNITARIO\nElástico,0.40\nFita,\n"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Elástico", items[0].Item)
}

func TestParseWire(t *testing.T) {
	wire, err := ParseWire(csvTable(t, "wire", "FOLHAS_MIN,FOLHAS_MAX,WIRE,CUSTO\n1,60,Wire-o 1/4,0.80\n61,,Wire-o 5/16,1.10\nx,1,bad,1\n"))
	require.NoError(t, err)
	require.Len(t, wire, 2)
	assert.Equal(t, "Wire-o 1/4", wire[0].Description)
	assert.True(t, wire[1].MaxSheets.GreaterThan(wire[1].MinSheets.Mul(wire[1].MinSheets)))
}

func TestParseComposition_MissingColumn(t *testing.T) {
	_, err := ParsePapers(csvTable(t, "papers", "PAPEL,VALOR\nA,1\n"))
	assert.Error(t, err)

	_, err = ParseWire(csvTable(t, "wire", "FOLHAS_MIN,CUSTO\n1,1\n"))
	assert.Error(t, err)
}
