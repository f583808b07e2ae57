package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-portugol/internal/ast"
	"github.com/cwbudde/go-portugol/internal/check"
	"github.com/cwbudde/go-portugol/internal/emit/cil"
	"github.com/cwbudde/go-portugol/internal/emit/console"
	"github.com/cwbudde/go-portugol/internal/emit/llvmir"
	"github.com/cwbudde/go-portugol/internal/errors"
	"github.com/cwbudde/go-portugol/internal/lexer"
	"github.com/cwbudde/go-portugol/internal/lower"
	"github.com/cwbudde/go-portugol/internal/parser"
)

var (
	target     string
	outputStem string
)

var compileCmd = &cobra.Command{
	Use:   "compile <source> [<extra>...]",
	Short: "Compile a Portugol source file",
	Long: `Lex, parse, resolve, flatten, type-check and lower a Portugol source
file, writing the result as textual bytecode (default) or, with --target,
one of the auxiliary emitter outputs.

Examples:
  portugolc compile programa.pgl
  portugolc compile programa.pgl --target=console -o saida.cs`,
	Args: cobra.MinimumNArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVar(&target, "target", "bytecode", "bytecode|console|llvm-ir|cil-bytecode|universal")
	compileCmd.Flags().StringVarP(&outputStem, "output", "o", "", "output file (default: <input> with the target's extension)")
}

// parseUnit lexes and parses one source file into its own Program, so a
// syntax error is reported against the file that actually contains it.
func parseUnit(filename string) (*ast.Program, string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintf(os.Stderr, "%s: syntax error: %s\n", filename, e)
		}
		return nil, "", fmt.Errorf("parsing %s failed with %d error(s)", filename, len(p.Errors()))
	}
	return program, source, nil
}

// mergeUnits combines each parsed file's top-level usings/namespaces/
// declarations into one Program, the way a single-file compile already
// treats namespaces spread across several `namespace` blocks: extra source
// files exist to declare classes/functions the primary file's top-level
// commands call, not to be separately-scoped compilation units.
func mergeUnits(units []*ast.Program) *ast.Program {
	merged := &ast.Program{}
	seenUsing := map[string]bool{}
	for _, u := range units {
		for _, using := range u.Usings {
			if !seenUsing[using] {
				seenUsing[using] = true
				merged.Usings = append(merged.Usings, using)
			}
		}
		merged.Namespaces = append(merged.Namespaces, u.Namespaces...)
		merged.Declarations = append(merged.Declarations, u.Declarations...)
	}
	return merged
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	units := make([]*ast.Program, 0, len(args))
	var primarySource string
	for i, name := range args {
		unit, source, err := parseUnit(name)
		if err != nil {
			return err
		}
		if i == 0 {
			primarySource = source
		}
		units = append(units, unit)
	}
	program := mergeUnits(units)
	source := primarySource

	result := check.Run(program)
	if result.Errs.HasErrors() {
		result.Errs.AttachSource(filename, source)
		fmt.Fprint(os.Stderr, errors.FormatAll(result.Errs.Errors(), errors.StderrSupportsColor(os.Stderr.Fd())))
		return fmt.Errorf("checking failed with %d error(s)", result.Errs.Len())
	}

	lw := lower.New(result)
	prog := lw.Run(program)
	if lw.Errs().HasErrors() {
		lw.Errs().AttachSource(filename, source)
		fmt.Fprint(os.Stderr, errors.FormatAll(lw.Errs().Errors(), errors.StderrSupportsColor(os.Stderr.Fd())))
		return fmt.Errorf("lowering failed with %d error(s)", lw.Errs().Len())
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiled %s: %d bytecode lines\n", filename, prog.Len())
	}

	switch target {
	case "bytecode":
		return writeOutput(filename, ".pbc", prog.Text())
	case "console":
		return writeOutput(filename, ".cs", console.Generate(prog))
	case "llvm-ir":
		return writeOutput(filename, ".ll", llvmir.Generate(prog))
	case "cil-bytecode":
		return writeOutput(filename, ".il", cil.Generate(prog))
	case "universal":
		if err := writeOutput(filename, ".pbc", prog.Text()); err != nil {
			return err
		}
		if err := writeOutput(filename, ".cs", console.Generate(prog)); err != nil {
			return err
		}
		if err := writeOutput(filename, ".ll", llvmir.Generate(prog)); err != nil {
			return err
		}
		return writeOutput(filename, ".il", cil.Generate(prog))
	default:
		return fmt.Errorf("unknown target %q", target)
	}
}

func writeOutput(sourceFile, ext, text string) error {
	out := outputStem
	if out == "" {
		trimmed := strings.TrimSuffix(sourceFile, filepath.Ext(sourceFile))
		out = trimmed + ext
	} else if filepath.Ext(out) == "" {
		out += ext
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", out, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	} else {
		fmt.Printf("Compiled %s -> %s\n", sourceFile, out)
	}
	return nil
}
