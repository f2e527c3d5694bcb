package instancegen

import "os"

// ShowHelp prints usage information for the instance generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Arena Instance Generator
========================

Writes random permutation flow-shop instances that cmd/arena can race on
(set ARENA_INPUT_PATH to one of the generated files).

Usage:
  go run ./cmd/instancegen [options]

Options:
  -count int       Number of instances to write (default 5)
  -jobs int        Jobs per instance (default 20)
  -machines int    Machines per instance (default 5)
  -min int         Smallest processing time (default 1)
  -max int         Largest processing time (default 99)
  -seed int        Seed of the first instance (default 1)
  -out string      Output directory (default "instances")
  -prefix string   File name prefix (default "flowshop")
  -format string   text or yaml (default "text")
  -workers int     Concurrent writers (default CPU cores)
  -verify          Read every file back after writing (default true)
  -help            Show this help message

Examples:
  go run ./cmd/instancegen -count 10 -jobs 50 -machines 10
  go run ./cmd/instancegen -format yaml -out testdata
`)
}
