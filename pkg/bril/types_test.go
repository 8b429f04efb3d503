package bril

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTypeEqual(t *testing.T) {
	t.Run("scalars compare by kind", func(t *testing.T) {
		if !IntType.Equal(&Type{Kind: IntKind}) {
			t.Error("expected int == int")
		}
		if IntType.Equal(BoolType) {
			t.Error("expected int != bool")
		}
	})

	t.Run("pointers compare structurally", func(t *testing.T) {
		a := PtrTo(PtrTo(IntType))
		b := PtrTo(PtrTo(&Type{Kind: IntKind}))
		if !a.Equal(b) {
			t.Error("expected ptr<ptr<int>> == ptr<ptr<int>>")
		}
		if a.Equal(PtrTo(IntType)) {
			t.Error("expected ptr<ptr<int>> != ptr<int>")
		}
	})

	t.Run("nil is the absent type", func(t *testing.T) {
		var none *Type
		if !none.Equal(nil) {
			t.Error("expected nil == nil")
		}
		if none.Equal(IntType) {
			t.Error("expected nil != int")
		}
		if IntType.Equal(nil) {
			t.Error("expected int != nil")
		}
	})
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{IntType, "int"},
		{BoolType, "bool"},
		{FloatType, "float"},
		{PtrTo(IntType), "ptr<int>"},
		{PtrTo(PtrTo(BoolType)), "ptr<ptr<bool>>"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTypeJSON(t *testing.T) {
	t.Run("decodes scalar names", func(t *testing.T) {
		var typ Type
		if err := json.Unmarshal([]byte(`"float"`), &typ); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if typ.Kind != FloatKind {
			t.Errorf("expected float, got %s", &typ)
		}
	})

	t.Run("decodes nested pointers", func(t *testing.T) {
		var typ Type
		if err := json.Unmarshal([]byte(`{"ptr": {"ptr": "int"}}`), &typ); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !typ.Equal(PtrTo(PtrTo(IntType))) {
			t.Errorf("expected ptr<ptr<int>>, got %s", &typ)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		var typ Type
		if err := json.Unmarshal([]byte(`"quux"`), &typ); err == nil {
			t.Error("expected an error for unknown type name")
		}
	})

	t.Run("round-trips", func(t *testing.T) {
		orig := PtrTo(FloatType)
		data, err := json.Marshal(orig)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var back Type
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !back.Equal(orig) {
			t.Errorf("round trip changed %s into %s", orig, &back)
		}
	})
}

func TestLiteralJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Literal
	}{
		{"integer token", `4`, Literal{Kind: IntLit, Int: 4}},
		{"negative integer", `-12`, Literal{Kind: IntLit, Int: -12}},
		{"boolean", `true`, Literal{Kind: BoolLit, Bool: true}},
		{"fractional token", `2.5`, Literal{Kind: FloatLit, Float: 2.5}},
		{"exponent token", `1e3`, Literal{Kind: FloatLit, Float: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lit Literal
			if err := json.Unmarshal([]byte(tt.json), &lit); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lit != tt.want {
				t.Errorf("got %+v, want %+v", lit, tt.want)
			}
		})
	}
}

func TestInstructionKind(t *testing.T) {
	tests := []struct {
		name  string
		instr Instruction
		want  InstrKind
	}{
		{"label", Instruction{Label: "loop"}, LabelInstr},
		{"const", Instruction{Op: Const, Dest: "x", Type: IntType}, ConstantInstr},
		{"value op", Instruction{Op: Add, Dest: "x", Type: IntType, Args: []string{"a", "b"}}, ValueInstr},
		{"effect op", Instruction{Op: Print, Args: []string{"x"}}, EffectInstr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.instr.Kind(); got != tt.want {
				t.Errorf("Kind() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	src := `{
	  "functions": [{
	    "name": "main",
	    "instrs": [
	      {"op": "const", "dest": "v", "type": "int", "value": 7},
	      {"op": "const", "dest": "f", "type": "float", "value": 3},
	      {"label": "end"},
	      {"op": "print", "args": ["v"]}
	    ]
	  }]
	}`
	prog, err := LoadProgram(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "main" || len(fn.Instrs) != 4 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if fn.Instrs[0].Value.Int != 7 {
		t.Errorf("expected literal 7, got %s", fn.Instrs[0].Value)
	}
	// An integer token under a float type stays an integer literal; the
	// declared type widens it at execution time.
	if fn.Instrs[1].Value.Kind != IntLit || fn.Instrs[1].Value.AsFloat() != 3.0 {
		t.Errorf("expected widening literal, got %+v", fn.Instrs[1].Value)
	}
	if fn.Instrs[2].Kind() != LabelInstr || fn.Instrs[2].Label != "end" {
		t.Errorf("expected label instruction, got %+v", fn.Instrs[2])
	}
}
