// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/katalvlaran/mixedmodel/matrix"
)

func renderTable(w io.Writer, header []any, rows [][]any) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	for _, r := range rows {
		t.AppendRow(table.Row(r))
	}
	t.Render()
}

// renderMatrix prints m as a grid with 1-based row and column labels.
func renderMatrix(w io.Writer, m matrix.Matrix) error {
	d, err := matrix.DenseOf(m)
	if err != nil {
		return err
	}
	rows, cols := d.Shape()

	header := make(table.Row, cols+1)
	header[0] = ""
	for j := 0; j < cols; j++ {
		header[j+1] = j + 1
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	for i := 0; i < rows; i++ {
		row := make(table.Row, cols+1)
		row[0] = i + 1
		for j := 0; j < cols; j++ {
			v, err := d.At(i, j)
			if err != nil {
				return err
			}
			row[j+1] = fmt.Sprintf("%.4g", v)
		}
		t.AppendRow(row)
	}
	t.Render()

	return nil
}
