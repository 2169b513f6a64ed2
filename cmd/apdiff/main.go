// Command apdiff compares versions of a wireless site survey.
package main

import (
	"os"

	"github.com/kilupskalvis/apdiff/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
