// Command shoplens queries a product catalog from the terminal and imports
// catalogs into a file or SQLite database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
