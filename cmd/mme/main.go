// SPDX-License-Identifier: MIT

// Command mme assembles mixed model equations from a model description and a
// SQLite database.
package main

import (
	"os"

	"github.com/katalvlaran/mixedmodel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
