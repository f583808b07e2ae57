package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

// resetCompileFlags restores the package-level flag variables compileScript
// reads, since cobra normally owns their lifecycle across command parses.
func resetCompileFlags(t *testing.T) {
	t.Helper()
	savedTarget, savedOutput, savedVerbose := target, outputStem, verbose
	target, outputStem, verbose = "bytecode", "", false
	t.Cleanup(func() {
		target, outputStem, verbose = savedTarget, savedOutput, savedVerbose
	})
}

func TestCompileScriptDefaultsToBytecodeOutput(t *testing.T) {
	resetCompileFlags(t)
	dir := t.TempDir()
	src := writeSource(t, dir, "programa.pgl", `imprima(1 + 2);`)

	if err := compileScript(nil, []string{src}); err != nil {
		t.Fatalf("compileScript() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "programa.pbc"))
	if err != nil {
		t.Fatalf("expected a .pbc output file: %v", err)
	}
	if !strings.Contains(string(out), "PRINT") {
		t.Errorf("output = %q, missing PRINT instruction", string(out))
	}
	if !strings.HasPrefix(string(out), "; build ") {
		t.Errorf("output = %q, missing build header", string(out))
	}
}

func TestCompileScriptTargetConsole(t *testing.T) {
	resetCompileFlags(t)
	target = "console"
	dir := t.TempDir()
	src := writeSource(t, dir, "programa.pgl", `imprima("ola");`)

	if err := compileScript(nil, []string{src}); err != nil {
		t.Fatalf("compileScript() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "programa.cs"))
	if err != nil {
		t.Fatalf("expected a .cs output file: %v", err)
	}
	if !strings.Contains(string(out), "Console.WriteLine") {
		t.Errorf("output = %q, missing Console.WriteLine", string(out))
	}
}

func TestCompileScriptTargetUniversalWritesAllFour(t *testing.T) {
	resetCompileFlags(t)
	target = "universal"
	dir := t.TempDir()
	src := writeSource(t, dir, "programa.pgl", `imprima(1);`)

	if err := compileScript(nil, []string{src}); err != nil {
		t.Fatalf("compileScript() error = %v", err)
	}

	for _, ext := range []string{".pbc", ".cs", ".ll", ".il"} {
		if _, err := os.Stat(filepath.Join(dir, "programa"+ext)); err != nil {
			t.Errorf("expected output file with extension %s: %v", ext, err)
		}
	}
}

func TestCompileScriptUnknownTargetFails(t *testing.T) {
	resetCompileFlags(t)
	target = "cobol"
	dir := t.TempDir()
	src := writeSource(t, dir, "programa.pgl", `imprima(1);`)

	if err := compileScript(nil, []string{src}); err == nil {
		t.Fatal("expected an error for an unknown --target value")
	}
}

func TestCompileScriptReportsParseErrors(t *testing.T) {
	resetCompileFlags(t)
	dir := t.TempDir()
	src := writeSource(t, dir, "programa.pgl", `var x = ;`)

	if err := compileScript(nil, []string{src}); err == nil {
		t.Fatal("expected a parse-error failure for malformed source")
	}
}

func TestCompileScriptReportsCheckErrors(t *testing.T) {
	resetCompileFlags(t)
	dir := t.TempDir()
	src := writeSource(t, dir, "programa.pgl", `inteiro x = "oi";`)

	if err := compileScript(nil, []string{src}); err == nil {
		t.Fatal("expected a type-check failure")
	}
}

func TestCompileScriptMergesExtraSourceFiles(t *testing.T) {
	resetCompileFlags(t)
	dir := t.TempDir()
	lib := writeSource(t, dir, "util.pgl", `funcao dobro(x: inteiro): inteiro {
    retorne x * 2;
}`)
	main := writeSource(t, dir, "programa.pgl", `imprima(dobro(21));`)

	if err := compileScript(nil, []string{main, lib}); err != nil {
		t.Fatalf("compileScript() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "programa.pbc"))
	if err != nil {
		t.Fatalf("expected a .pbc output file: %v", err)
	}
	if !strings.Contains(string(out), "CALL_FUNCTION dobro") {
		t.Errorf("output = %q, missing a call into the extra-source file's function", string(out))
	}
}

func TestCompileScriptReportsParseErrorFromExtraSourceFile(t *testing.T) {
	resetCompileFlags(t)
	dir := t.TempDir()
	main := writeSource(t, dir, "programa.pgl", `imprima(1);`)
	lib := writeSource(t, dir, "util.pgl", `var x = ;`)

	if err := compileScript(nil, []string{main, lib}); err == nil {
		t.Fatal("expected a parse-error failure for a malformed extra source file")
	}
}

func TestCompileScriptMissingFileFails(t *testing.T) {
	resetCompileFlags(t)
	if err := compileScript(nil, []string{"/nonexistent/programa.pgl"}); err == nil {
		t.Fatal("expected a file-read error for a missing source file")
	}
}

func TestCompileScriptHonorsExplicitOutputStem(t *testing.T) {
	resetCompileFlags(t)
	dir := t.TempDir()
	src := writeSource(t, dir, "programa.pgl", `imprima(1);`)
	outputStem = filepath.Join(dir, "saida")

	if err := compileScript(nil, []string{src}); err != nil {
		t.Fatalf("compileScript() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saida.pbc")); err != nil {
		t.Errorf("expected output at the explicit stem: %v", err)
	}
}
