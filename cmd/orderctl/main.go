// Command orderctl inspects the order lifecycle table and simulates
// concurrent transitions against a store.
package main

import (
	"os"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
