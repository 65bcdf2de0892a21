// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mixedmodel/matrix"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Validate checks internal consistency. It does not parse the equations.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Model.Equations) == "" {
		return fmt.Errorf("model.equations is required: %w", ErrInvalid)
	}
	if err := validateSquare("model.residual", c.Model.Residual); err != nil {
		return err
	}
	if c.Model.ResidualDF <= 0 {
		return fmt.Errorf("model.residual_df must be positive, got %g: %w", c.Model.ResidualDF, ErrInvalid)
	}
	if c.HasPedigree() {
		if err := validateSquare("model.pedigree.covariance", c.Model.Pedigree.Covariance); err != nil {
			return err
		}
		if n := len(c.Model.Pedigree.Covariance); n != len(c.Model.Pedigree.Terms) {
			return fmt.Errorf("model.pedigree.covariance is %dx%d for %d terms: %w", n, n, len(c.Model.Pedigree.Terms), ErrInvalid)
		}
		if c.Data.PedigreeQuery == "" {
			return fmt.Errorf("data.pedigree_query is required with pedigree terms: %w", ErrInvalid)
		}
	}
	for _, r := range c.Model.Random {
		if r.Term == "" || r.Variance <= 0 {
			return fmt.Errorf("model.random entry %+v needs a term and a positive variance: %w", r, ErrInvalid)
		}
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be text or json, got %q: %w", c.Log.Format, ErrInvalid)
	}

	return nil
}

func validateSquare(key string, rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("%s is required: %w", key, ErrInvalid)
	}
	for i, row := range rows {
		if len(row) != len(rows) {
			return fmt.Errorf("%s row %d has %d values, want %d: %w", key, i, len(row), len(rows), ErrInvalid)
		}
		for j := 0; j < i; j++ {
			if row[j] != rows[j][i] {
				return fmt.Errorf("%s is not symmetric at (%d,%d): %w", key, i, j, ErrInvalid)
			}
		}
	}

	return nil
}

// Symmetric converts a square, symmetric literal into a gonum matrix. key
// names the setting in errors. Ragged, non-square, asymmetric or non-finite
// input is rejected with ErrInvalid.
func Symmetric(key string, rows [][]float64) (*mat.SymDense, error) {
	if err := validateSquare(key, rows); err != nil {
		return nil, err
	}
	d, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", key, ErrInvalid, err)
	}
	g := d.Gonum()

	return mat.NewSymDense(d.Rows(), g.RawMatrix().Data), nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, ErrInvalid)
	}

	return lvl, nil
}

// Logger builds the slog logger described by l, writing to w.
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Dump writes c as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return enc.Close()
}
