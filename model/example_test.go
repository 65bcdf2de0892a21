// SPDX-License-Identifier: MIT
package model_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/mixedmodel/model"
	"github.com/katalvlaran/mixedmodel/table"
)

// ExampleMME_Assemble builds XᵀX and Xᵀy for an intercept plus a herd effect.
//
//	herd h2: a1, a3
//	herd h1: a2
func ExampleMME_Assemble() {
	tbl, err := table.New([]string{"ID", "herd", "BW"}, [][]string{
		{"a1", "h2", "10"},
		{"a2", "h1", "12"},
		{"a3", "h2", "14"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	m, err := model.Build("BW = intercept + herd", mat.NewSymDense(1, []float64{1}))
	if err != nil {
		fmt.Println(err)
		return
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err = m.Assemble(context.Background(), tbl, model.WithLogger(quiet)); err != nil {
		fmt.Println(err)
		return
	}

	herd, _ := m.Term(model.TermKey(1, "herd"))
	fmt.Println(herd.LevelNames, herd.StartColumn)

	lhs, _ := m.LHS.ToDense()
	fmt.Print(lhs)
	fmt.Println(m.RHS)

	// Output:
	// [h2 h1] 1
	// [3, 2, 1]
	// [2, 2, 0]
	// [1, 0, 1]
	// [36 24 12]
}
