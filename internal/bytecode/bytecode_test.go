package bytecode

import (
	"reflect"
	"testing"
)

func TestIsComment(t *testing.T) {
	cases := map[string]bool{
		"":                    true,
		"   ":                 true,
		"; a comment":         true,
		"  ; indented comment": true,
		"LOAD_CONST_INT 1":    false,
	}
	for line, want := range cases {
		if got := IsComment(line); got != want {
			t.Errorf("IsComment(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestSplitOp(t *testing.T) {
	op, rest := SplitOp("LOAD_CONST_INT 42")
	if op != "LOAD_CONST_INT" || rest != "42" {
		t.Errorf("got (%q, %q)", op, rest)
	}

	op, rest = SplitOp("HALT")
	if op != "HALT" || rest != "" {
		t.Errorf("got (%q, %q)", op, rest)
	}

	op, rest = SplitOp("LOAD_CONST_STR hello world")
	if op != "LOAD_CONST_STR" || rest != "hello world" {
		t.Errorf("got (%q, %q)", op, rest)
	}
}

func TestFields(t *testing.T) {
	if f := Fields(""); f != nil {
		t.Errorf("Fields(\"\") = %v, want nil", f)
	}
	if got := Fields("a b  c"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Fields() = %v", got)
	}
}

func TestJoinSplitMetaRoundTrip(t *testing.T) {
	meta := JoinMeta([]string{"saldo", "titular"}, []string{"valor"}, false)
	props, params, abstract := SplitMeta(meta)
	if !reflect.DeepEqual(props, []string{"saldo", "titular"}) {
		t.Errorf("props = %v", props)
	}
	if !reflect.DeepEqual(params, []string{"valor"}) {
		t.Errorf("params = %v", params)
	}
	if abstract {
		t.Error("abstract = true, want false")
	}
}

func TestSplitMetaAllEmpty(t *testing.T) {
	props, params, abstract := SplitMeta(JoinMeta(nil, nil, false))
	if props != nil || params != nil || abstract {
		t.Errorf("got (%v, %v, %v), want all empty", props, params, abstract)
	}
}

func TestJoinSplitMetaAbstractFlag(t *testing.T) {
	_, _, abstract := SplitMeta(JoinMeta(nil, nil, true))
	if !abstract {
		t.Error("abstract = false, want true")
	}
}

func TestProgramEmitAndText(t *testing.T) {
	p := &Program{}
	p.Emit("LOAD_CONST_INT 1")
	p.Emitf("LOAD_CONST_INT %d", 2)
	p.Emit(OpAdd)
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	want := "LOAD_CONST_INT 1\nLOAD_CONST_INT 2\nADD\n"
	if got := p.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestProgramPatch(t *testing.T) {
	p := &Program{}
	idx := p.Len()
	p.Emit("JUMP 0")
	p.Emit("HALT")
	p.Patch(idx, "JUMP 2")
	if p.Lines[idx] != "JUMP 2" {
		t.Errorf("Lines[%d] = %q, want %q", idx, p.Lines[idx], "JUMP 2")
	}
}

func TestParseRoundTripPreservesLineIndices(t *testing.T) {
	p := &Program{}
	p.Emit("; build deadbeef")
	p.Emit("LOAD_CONST_INT 1")
	p.Emit("")
	p.Emit("JUMP_IF_FALSE 5")
	p.Emit("LOAD_CONST_INT 2")
	p.Emit("JUMP 6")
	p.Emit("LOAD_CONST_INT 3")
	p.Emit("HALT")

	text := p.Text()
	reparsed := Parse(text)

	if reparsed.Len() != p.Len() {
		t.Fatalf("Len() = %d, want %d (line indices must survive a disk round trip)", reparsed.Len(), p.Len())
	}
	for i := range p.Lines {
		if reparsed.Lines[i] != p.Lines[i] {
			t.Errorf("line %d = %q, want %q", i, reparsed.Lines[i], p.Lines[i])
		}
	}
}

func TestParseNoTrailingNewline(t *testing.T) {
	p := Parse("LOAD_CONST_INT 1\nHALT")
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
}

func TestTopLevelLinesSkipsClassAndFunctionBodies(t *testing.T) {
	p := &Program{}
	p.Emit("LOAD_CONST_INT 1")
	p.Emit("DEFINE_CLASS Conta NULO saldo||")
	p.Emit("DEFINE_METHOD construtor 2")
	p.Emit("LOAD_VAR este")
	p.Emit("RETURN")
	p.Emit("END_CLASS")
	p.Emit("DEFINE_FUNCTION soma 3")
	p.Emit("LOAD_VAR a")
	p.Emit("LOAD_VAR b")
	p.Emit("ADD")
	p.Emit("PRINT")
	p.Emit("HALT")

	got := TopLevelLines(p)
	want := []string{"LOAD_CONST_INT 1", "PRINT", "HALT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopLevelLines() = %v, want %v", got, want)
	}
}

func TestTopLevelLinesDropsComments(t *testing.T) {
	p := &Program{}
	p.Emit("; header")
	p.Emit("")
	p.Emit("LOAD_CONST_INT 1")
	p.Emit("PRINT")

	got := TopLevelLines(p)
	want := []string{"LOAD_CONST_INT 1", "PRINT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopLevelLines() = %v, want %v", got, want)
	}
}
