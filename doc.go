// SPDX-License-Identifier: MIT

// Package mixedmodel assembles the mixed model equations of quantitative
// genetics from a symbolic model, an observation table and an optional
// pedigree.
//
// What is inside?
//
//	model/     term parsing, incidence matrices, the single-use assembler
//	matrix/    Dense, compressed-sparse-column Sparse, kernels, gonum bridge
//	table/     named columns of text cells, missing-value policy, SQL ingestion
//	pedigree/  ancestor-first ordering, inbreeding, the A⁻¹ factor
//	residual/  per-pattern residual precision for multi-trait models
//	variance/  A⁻¹⊗G0⁻¹ and i.i.d. variance-ratio contributions
//	config/    koanf configuration (defaults, YAML, MME_* env, flags)
//
// This package wires them together:
//
//	cfg, _ := config.Load("mme.yaml", nil)
//	db, _ := mixedmodel.OpenDatabase(cfg.Data.Database)
//	mme, _ := mixedmodel.AssembleFromDB(ctx, cfg, db, logger)
//	// mme.LHS, mme.RHS, mme.DesignMatrix, mme.RelationshipInverse
//
// Solving the equations and estimating variance components are left to the
// caller.
package mixedmodel
