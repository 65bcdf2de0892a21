// SPDX-License-Identifier: MIT

package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mixedmodel"
	"github.com/katalvlaran/mixedmodel/internal/cli"
)

// setupProject writes a SQLite database and a config file into a temp dir.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "herd.db")

	db, err := mixedmodel.OpenDatabase(dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE phenotypes (Animal TEXT, herd TEXT, BW REAL);
		INSERT INTO phenotypes VALUES ('c', 'h1', 10), ('d', 'h2', 12);
		CREATE TABLE pedigree (ID TEXT, Sire TEXT, Dam TEXT);
		INSERT INTO pedigree VALUES ('c', 'a', 'b'), ('d', 'a', '0');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg := `
model:
  equations: "BW = intercept + herd + Animal"
  residual: [[1]]
  pedigree:
    terms: ["1:Animal"]
    covariance: [[1]]
data:
  database: ` + dbPath + `
  query: SELECT Animal, herd, BW FROM phenotypes
  pedigree_query: SELECT ID, Sire, Dam FROM pedigree
log:
  level: error
`
	cfgPath := filepath.Join(dir, "mme.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mme v"+cli.Version)
}

func TestTermsCommand(t *testing.T) {
	out, err := run(t, "terms", "--config", setupProject(t))
	require.NoError(t, err)
	assert.Contains(t, out, "1:intercept")
	assert.Contains(t, out, "1:herd")
	assert.Contains(t, out, "pedigree")
}

func TestTermsCommandEquationsFlag(t *testing.T) {
	out, err := run(t, "terms", "--config", setupProject(t), "--equations", "BW = intercept + herd*Animal")
	require.NoError(t, err)
	assert.Contains(t, out, "1:herd*Animal")
	assert.Contains(t, out, "herd × Animal")
}

func TestBuildCommand(t *testing.T) {
	out, err := run(t, "build", "--config", setupProject(t), "--show-lhs")
	require.NoError(t, err)
	assert.Contains(t, out, "1:Animal")
	assert.Contains(t, out, "equations: 7") // 1 + 2 + 4 (a, b, c, d)
	assert.Contains(t, out, "observations: 2")
}

func TestBuildCommandRequiresDatabase(t *testing.T) {
	_, err := run(t, "build", "--config", setupProject(t), "--database", "")
	require.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "config", "--config", setupProject(t), "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "BW = intercept + herd + Animal")
	assert.Contains(t, out, "format: json")
}

func TestInvalidConfigFails(t *testing.T) {
	_, err := run(t, "terms", "--equations", "BW = intercept")
	require.Error(t, err) // no residual covariance anywhere
}
