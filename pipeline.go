// SPDX-License-Identifier: MIT

package mixedmodel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/katalvlaran/mixedmodel/config"
	"github.com/katalvlaran/mixedmodel/model"
	"github.com/katalvlaran/mixedmodel/pedigree"
	"github.com/katalvlaran/mixedmodel/residual"
	"github.com/katalvlaran/mixedmodel/table"
	"github.com/katalvlaran/mixedmodel/variance"
)

// ErrNoPedigree indicates pedigree terms without pedigree data.
var ErrNoPedigree = errors.New("mixedmodel: pedigree terms configured but no pedigree supplied")

// OpenDatabase opens a SQLite database through the pure-Go driver.
// ":memory:" opens a private in-memory database.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	return db, nil
}

// BuildModel parses mc and applies covariates, pedigree terms and random
// terms. ped may be nil when mc has no pedigree terms.
func BuildModel(mc config.ModelConfig, ped model.Pedigree) (*model.MME, error) {
	r0, err := config.Symmetric("model.residual", mc.Residual)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInputFormat, err)
	}
	m, err := model.Build(mc.Equations, r0, model.WithResidualDF(mc.ResidualDF))
	if err != nil {
		return nil, err
	}
	if err = m.SetCovariate(mc.Covariates...); err != nil {
		return nil, err
	}
	if len(mc.Pedigree.Terms) > 0 {
		if ped == nil {
			return nil, ErrNoPedigree
		}
		g0, err := config.Symmetric("model.pedigree.covariance", mc.Pedigree.Covariance)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrInputFormat, err)
		}
		if err = m.SetPedigree(ped, g0, mc.Pedigree.Terms...); err != nil {
			return nil, err
		}
	}
	for _, r := range mc.Random {
		if err = m.SetRandom(r.Term, r.Variance); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Assemble builds the model of cfg and assembles it over obs with the standard
// collaborators. pedTbl is read with the configured id/sire/dam columns and is
// only required when pedigree terms are configured.
func Assemble(ctx context.Context, cfg *config.Config, obs, pedTbl *table.Table, logger *slog.Logger) (*model.MME, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var ped model.Pedigree
	if cfg.HasPedigree() {
		if pedTbl == nil {
			return nil, ErrNoPedigree
		}
		p, err := pedigree.FromTable(pedTbl, cfg.Data.IDColumn, cfg.Data.SireColumn, cfg.Data.DamColumn,
			pedigree.WithCancelContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("pedigree: %w", err)
		}
		logger.Debug("pedigree ordered", slog.Int("individuals", p.Len()))
		ped = p
	}

	m, err := BuildModel(cfg.Model, ped)
	if err != nil {
		return nil, err
	}
	err = m.Assemble(ctx, obs,
		model.WithLogger(logger),
		model.WithResidualPrecision(residual.New(residual.WithLogger(logger))),
		model.WithGeneticContribution(variance.Additive{}),
		model.WithRandomContribution(variance.IID{}),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// AssembleFromDB reads the observation and pedigree queries of cfg.Data from
// db and assembles the model.
func AssembleFromDB(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger) (*model.MME, error) {
	if cfg.Data.Query == "" {
		return nil, fmt.Errorf("data.query is required: %w", config.ErrInvalid)
	}
	obs, err := table.FromQuery(ctx, db, cfg.Data.Query)
	if err != nil {
		return nil, fmt.Errorf("observations: %w", err)
	}
	var pedTbl *table.Table
	if cfg.HasPedigree() {
		if pedTbl, err = table.FromQuery(ctx, db, cfg.Data.PedigreeQuery); err != nil {
			return nil, fmt.Errorf("pedigree: %w", err)
		}
	}

	return Assemble(ctx, cfg, obs, pedTbl, logger)
}
