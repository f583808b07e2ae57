package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-portugol/internal/bytecode"
	"github.com/cwbudde/go-portugol/internal/vm"
)

var trace bool

func runBytecode(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	prog := bytecode.Parse(string(content))
	machine := vm.New(prog, os.Stdout)

	if trace || verbose {
		fmt.Fprintf(os.Stderr, "[run %s] executing %s (%d bytecode lines)\n", machine.RunID, filename, prog.Len())
	}

	if err := machine.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("execution failed")
	}
	return nil
}
