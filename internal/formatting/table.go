package formatting

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable renders headers and rows as a plain kubectl-style table.
func RenderTable(headers []string, rows [][]string) string {
	t := table.NewWriter()

	headerRow := make(table.Row, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			tableRow[i] = cell
		}
		t.AppendRow(tableRow)
	}

	style := table.StyleLight
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateHeader = false
	t.SetStyle(style)

	return t.Render() + "\n"
}

// ItemRows projects items onto the given columns, stringifying each
// cell. Missing fields render as empty cells.
func ItemRows(items []map[string]any, columns []string) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := item[col]; ok && v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
