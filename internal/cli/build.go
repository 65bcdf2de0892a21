// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mixedmodel"
)

// maxRenderedEquations bounds --show-lhs output.
const maxRenderedEquations = 60

// NewBuildCommand assembles the equations from the configured database.
func NewBuildCommand() *cobra.Command {
	var showLHS bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble the mixed model equations",
		Long: `Read observations (and the pedigree, when pedigree terms are configured)
from the SQLite database and assemble the mixed model equations. Prints the
column layout of every term and the size of the system.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			if cfg.Data.Database == "" {
				return fmt.Errorf("data.database is required (use --database)")
			}
			logger := loggerFrom(cmd)

			db, err := mixedmodel.OpenDatabase(cfg.Data.Database)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			m, err := mixedmodel.AssembleFromDB(cmd.Context(), cfg, db, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]any, 0, len(m.Terms))
			for _, term := range m.Terms {
				rows = append(rows, []any{term.TermString, term.NumLevels, term.StartColumn + 1, term.EndColumn()})
			}
			renderTable(out, []any{"Term", "Levels", "First column", "Last column"}, rows)
			_, _ = fmt.Fprintf(out, "observations: %d  traits: %d  equations: %d  lhs non-zeros: %d\n",
				m.NumObservations(), m.NumTraits, m.NextColumn(), m.LHS.NNZ())

			if showLHS {
				if m.NextColumn() > maxRenderedEquations {
					return fmt.Errorf("system has %d equations, --show-lhs renders at most %d", m.NextColumn(), maxRenderedEquations)
				}
				return renderMatrix(out, m.LHS)
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&showLHS, "show-lhs", false, "render the left-hand side as a grid")

	return cmd
}
