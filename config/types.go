// SPDX-License-Identifier: MIT

package config

// Config is the full configuration of an assembly run.
type Config struct {
	Model ModelConfig `koanf:"model" yaml:"model"`
	Data  DataConfig  `koanf:"data" yaml:"data"`
	Log   LogConfig   `koanf:"log" yaml:"log"`
}

// ModelConfig describes the equations and variance components.
type ModelConfig struct {
	Equations  string         `koanf:"equations" yaml:"equations"`
	Covariates []string       `koanf:"covariates" yaml:"covariates,omitempty"`
	Residual   [][]float64    `koanf:"residual" yaml:"residual"`
	ResidualDF float64        `koanf:"residual_df" yaml:"residual_df"`
	Pedigree   PedigreeConfig `koanf:"pedigree" yaml:"pedigree,omitempty"`
	Random     []RandomConfig `koanf:"random" yaml:"random,omitempty"`
}

// PedigreeConfig lists the relationship-weighted terms and their covariance G0.
type PedigreeConfig struct {
	Terms      []string    `koanf:"terms" yaml:"terms,omitempty"`
	Covariance [][]float64 `koanf:"covariance" yaml:"covariance,omitempty"`
}

// RandomConfig is an i.i.d. random term.
type RandomConfig struct {
	Term     string  `koanf:"term" yaml:"term"`
	Variance float64 `koanf:"variance" yaml:"variance"`
}

// DataConfig locates observations and the pedigree in a SQLite database.
type DataConfig struct {
	Database      string `koanf:"database" yaml:"database"`
	Query         string `koanf:"query" yaml:"query"`
	PedigreeQuery string `koanf:"pedigree_query" yaml:"pedigree_query,omitempty"`
	IDColumn      string `koanf:"id_column" yaml:"id_column"`
	SireColumn    string `koanf:"sire_column" yaml:"sire_column"`
	DamColumn     string `koanf:"dam_column" yaml:"dam_column"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Defaults.
const (
	DefaultResidualDF = 4.0
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultIDColumn   = "ID"
	DefaultSireColumn = "Sire"
	DefaultDamColumn  = "Dam"
)

// HasPedigree reports whether relationship-weighted terms are configured.
func (c *Config) HasPedigree() bool { return len(c.Model.Pedigree.Terms) > 0 }
