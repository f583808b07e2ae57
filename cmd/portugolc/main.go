// Command portugolc compiles a Portugol source file to textual bytecode,
// or to one of the auxiliary emitter targets.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-portugol/cmd/portugolc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
