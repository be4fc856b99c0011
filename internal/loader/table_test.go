package loader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "prodboard/internal/errors"
)

func TestParseCSV(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("A,B,C\n1,2\n3,4,5,6\n")...)

	rows, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0][0], "BOM stripped")
	assert.Len(t, rows[1], 2)
	assert.Len(t, rows[2], 4)
}

func TestNewTable(t *testing.T) {
	rows := [][]string{
		{" DATA DE ENTREGA ", "QTD", "QTD"},
		{"15/01/2024", "10", "20"},
		{"16/01/2024"},
	}
	tbl := NewTable("orders", rows, false, OrdersRename)

	assert.Equal(t, []string{"DATA_DE_ENTREGA", "QTD", "QTD"}, tbl.Header)
	assert.Len(t, tbl.Rows, 2)
	assert.Equal(t, "10", tbl.Cell(tbl.Rows[0], "QTD"), "first duplicate wins")
	assert.Equal(t, "", tbl.Cell(tbl.Rows[1], "QTD"), "short row")
	assert.Equal(t, "", tbl.Cell(tbl.Rows[0], "NOPE"))
	assert.True(t, tbl.Has("DATA_DE_ENTREGA"))
}

func TestTableRequire(t *testing.T) {
	tbl := NewTable("capacity", [][]string{{"MES", "PROD"}}, false, CapacityRename)

	err := tbl.Require("MES_ANO", "PROD", "PROD_HORA")

	var missing *apperrors.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "capacity", missing.Source)
	assert.Equal(t, "PROD_HORA", missing.Column)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Orders")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Orders", "A1", &[]interface{}{"QTD", "EQUIPE"}))
	require.NoError(t, f.SetSheetRow("Orders", "A2", &[]interface{}{"10", "MESA 1"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"first"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseXLSX(buf.Bytes(), "Orders")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"QTD", "EQUIPE"}, {"10", "MESA 1"}}, rows)

	rows, err = ParseXLSX(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, "first", rows[0][0])

	_, err = ParseXLSX(buf.Bytes(), "Missing")
	assert.Error(t, err)

	_, err = ParseXLSX([]byte("not a workbook"), "")
	assert.Error(t, err)
}
