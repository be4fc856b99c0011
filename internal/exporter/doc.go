// Package exporter writes dashboard tables as CSV and XLSX.
//
// Tables flattens a computed view into named Sheets. CSV output carries a
// UTF-8 BOM so spreadsheet tools detect the encoding; XLSX output holds one
// worksheet per table and is built with excelize.
//
// Example usage:
//
//	sheets := exporter.Tables(model)
//	err := exporter.WriteXLSX(w, sheets)
//
//	writer := exporter.NewCSVWriter(paths)
//	files, err := writer.WriteSheets(runDir, sheets)
package exporter
