package ast

import "testing"

func TestTypeEqual(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"same kind", Integer(), Integer(), true},
		{"different kind", Integer(), Text(), false},
		{"inferred wildcard left", Inferred(), Text(), true},
		{"inferred wildcard right", Integer(), Inferred(), true},
		{"same class", ClassType("Banco.Conta"), ClassType("Banco.Conta"), true},
		{"different class", ClassType("Banco.Conta"), ClassType("Banco.Poupanca"), false},
		{"same list elem", ListOf(Integer()), ListOf(Integer()), true},
		{"different list elem", ListOf(Integer()), ListOf(Text()), false},
		{"same func type", FuncType([]Type{Integer()}, Boolean()), FuncType([]Type{Integer()}, Boolean()), true},
		{"different func arity", FuncType([]Type{Integer()}, Boolean()), FuncType(nil, Boolean()), false},
		{"different func result", FuncType([]Type{Integer()}, Boolean()), FuncType([]Type{Integer()}, Text()), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Equal(c.b); got != c.equal {
				t.Errorf("%v.Equal(%v) = %v, want %v", c.a, c.b, got, c.equal)
			}
		})
	}
}

func TestWiderNumeric(t *testing.T) {
	cases := []struct {
		a, b Type
		want Type
	}{
		{Integer(), Double(), Double()},
		{Double(), Integer(), Double()},
		{Float(), Decimal(), Decimal()},
		{Integer(), Integer(), Integer()},
	}
	for _, c := range cases {
		got := WiderNumeric(c.a, c.b)
		if got.Kind != c.want.Kind {
			t.Errorf("WiderNumeric(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	cases := []struct {
		t    Type
		want string
	}{
		{Integer(), "inteiro"},
		{Text(), "texto"},
		{Boolean(), "booleano"},
		{Void(), "vazio"},
		{ListOf(Integer()), "Lista de inteiro"},
		{ClassType("Conta"), "Conta"},
		{OptionalOf(Text()), "texto?"},
	}
	for _, c := range cases {
		if got := c.t.String(); got != c.want {
			t.Errorf("%v.String() = %q, want %q", c.t, got, c.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	for _, typ := range []Type{Integer(), Decimal(), Float(), Double()} {
		if !typ.IsNumeric() {
			t.Errorf("%v.IsNumeric() = false, want true", typ)
		}
	}
	for _, typ := range []Type{Text(), Boolean(), Void()} {
		if typ.IsNumeric() {
			t.Errorf("%v.IsNumeric() = true, want false", typ)
		}
	}
}
