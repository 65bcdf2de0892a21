// SPDX-License-Identifier: MIT

// Package config loads the settings of an assembly run.
//
// Precedence, lowest to highest:
//
//	defaults → YAML file → MME_* environment → explicitly set flags
//
// Environment keys use a double underscore for nesting:
// MME_DATA__DATABASE sets data.database, MME_MODEL__RESIDUAL_DF sets
// model.residual_df.
package config
