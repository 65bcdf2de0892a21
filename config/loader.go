// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MME_"

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"equations":      "model.equations",
	"covariates":     "model.covariates",
	"residual-df":    "model.residual_df",
	"database":       "data.database",
	"query":          "data.query",
	"pedigree-query": "data.pedigree_query",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// Load reads configuration from defaults, the YAML file at path (skipped when
// empty), the environment and the explicitly set flags, then validates it.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"model.residual_df": DefaultResidualDF,
		"data.id_column":    DefaultIDColumn,
		"data.sire_column":  DefaultSireColumn,
		"data.dam_column":   DefaultDamColumn,
		"log.level":         DefaultLogLevel,
		"log.format":        DefaultLogFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment: MME_DATA__DATABASE -> data.database
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Model.Covariates = splitFields(cfg.Model.Covariates)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// splitFields flattens entries such as "age weight" into separate names.
func splitFields(in []string) []string {
	var out []string
	for _, s := range in {
		out = append(out, strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })...)
	}

	return out
}
