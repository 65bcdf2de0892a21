// SPDX-License-Identifier: MIT

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mixedmodel/config"
	"github.com/katalvlaran/mixedmodel/model"
)

// NewTermsCommand lists the parsed terms without touching any data.
func NewTermsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "Parse the model and list its terms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			r0, err := config.Symmetric("model.residual", cfg.Model.Residual)
			if err != nil {
				return err
			}
			m, err := model.Build(cfg.Model.Equations, r0, model.WithResidualDF(cfg.Model.ResidualDF))
			if err != nil {
				return err
			}
			if err = m.SetCovariate(cfg.Model.Covariates...); err != nil {
				return err
			}

			random := make(map[string]bool, len(cfg.Model.Random))
			for _, r := range cfg.Model.Random {
				random[r.Term] = true
			}
			rows := make([][]any, 0, len(m.Terms))
			for _, term := range m.Terms {
				rows = append(rows, []any{
					term.TermString,
					m.Traits[term.TraitIndex-1],
					strings.Join(term.Factors, " × "),
					termKind(m, cfg, term, random),
				})
			}
			renderTable(cmd.OutOrStdout(), []any{"Term", "Trait", "Factors", "Kind"}, rows)

			return nil
		},
	}
}

func termKind(m *model.MME, cfg *config.Config, term *model.ModelTerm, random map[string]bool) string {
	switch {
	case term.IsIntercept():
		return "intercept"
	case isPedigreeTerm(cfg, term.TermString):
		return "pedigree"
	case random[term.TermString]:
		return "random"
	case m.IsCovariate(term.Factors[0]):
		return "covariate"
	default:
		return "fixed"
	}
}

func isPedigreeTerm(cfg *config.Config, key string) bool {
	for _, t := range cfg.Model.Pedigree.Terms {
		if t == key {
			return true
		}
	}
	return false
}
