// Command portugolvm executes a compiled Portugol bytecode (.pbc) file.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-portugol/cmd/portugolvm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
