package types

import "testing"

func TestLookupBasic(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"Long", Long},
		{"long", Long},
		{"INTEGER", Integer},
		{"Variant", Variant},
		{"String", String},
		{"Currency", Currency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := LookupBasic(tt.name)
			if b == nil {
				t.Fatalf("LookupBasic(%q) = nil", tt.name)
			}
			if b.Kind() != tt.want {
				t.Errorf("kind = %v, want %v", b.Kind(), tt.want)
			}
		})
	}

	if LookupBasic("Widget") != nil {
		t.Error("Widget should not be a predeclared type")
	}
}

func TestSuffixType(t *testing.T) {
	tests := []struct {
		suffix string
		want   Kind
	}{
		{"%", Integer},
		{"&", Long},
		{"!", Single},
		{"#", Double},
		{"@", Currency},
		{"$", String},
	}
	for _, tt := range tests {
		b := SuffixType(tt.suffix)
		if b == nil || b.Kind() != tt.want {
			t.Errorf("SuffixType(%q) = %v, want kind %v", tt.suffix, b, tt.want)
		}
	}
	if SuffixType("?") != nil {
		t.Error("unknown suffix should map to nil")
	}
}

func TestCheckCompatibility(t *testing.T) {
	sys := NewSystem()

	tests := []struct {
		name         string
		from, to     Type
		wantValid    bool
		wantLossless bool
	}{
		{"identical", Typ[Long], Typ[Long], true, true},
		{"widen_integer_long", Typ[Integer], Typ[Long], true, true},
		{"widen_byte_double", Typ[Byte], Typ[Double], true, true},
		{"widen_long_currency", Typ[Long], Typ[Currency], true, true},
		{"narrow_long_integer", Typ[Long], Typ[Integer], true, false},
		{"narrow_double_single", Typ[Double], Typ[Single], true, false},
		{"variant_to_long", Typ[Variant], Typ[Long], true, true},
		{"long_to_variant", Typ[Long], Typ[Variant], true, true},
		{"string_to_long", Typ[String], Typ[Long], false, false},
		{"long_to_string", Typ[Long], Typ[String], false, false},
		{"boolean_to_long", Typ[Boolean], Typ[Long], true, false},
		{"date_to_double", Typ[Date], Typ[Double], true, false},
		{"date_to_string", Typ[Date], Typ[String], false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sys.CheckCompatibility(tt.from, tt.to)
			if c.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v (%s)", c.Valid, tt.wantValid, c.Note)
			}
			if c.Valid && c.Lossless != tt.wantLossless {
				t.Errorf("lossless = %v, want %v (%s)", c.Lossless, tt.wantLossless, c.Note)
			}
		})
	}
}

func TestCompatibilityUserTypes(t *testing.T) {
	sys := NewSystem()
	point := NewRecord("TPoint", []*Symbol{
		NewField(syntaxPos(1, 1), "X", Typ[Long]),
		NewField(syntaxPos(2, 1), "Y", Typ[Long]),
	})
	color := NewEnum("Color")
	sys.Register("TPoint", point)
	sys.Register("Color", color)

	if sys.GetType("tpoint") != point {
		t.Error("user type lookup should be case-insensitive")
	}

	if c := sys.CheckCompatibility(point, point); !c.Valid || !c.Lossless {
		t.Error("record should assign to itself")
	}
	if c := sys.CheckCompatibility(point, Typ[Long]); c.Valid {
		t.Error("record should not convert to Long")
	}

	// Enums are Long-valued.
	if c := sys.CheckCompatibility(color, Typ[Long]); !c.Valid || !c.Lossless {
		t.Error("enum should widen to Long losslessly")
	}
	if c := sys.CheckCompatibility(Typ[Long], color); !c.Valid {
		t.Error("Long should assign to an enum")
	}
	if !sys.IsNumeric(color) {
		t.Error("enum should be numeric")
	}
}

func TestRecordFieldLookup(t *testing.T) {
	rec := NewRecord("TUser", []*Symbol{
		NewField(syntaxPos(1, 1), "Name", Typ[String]),
		NewField(syntaxPos(2, 1), "Age", Typ[Integer]),
	})
	if f := rec.Field("age"); f == nil || f.Type() != Typ[Integer] {
		t.Error("field lookup should be case-insensitive")
	}
	if rec.Field("Missing") != nil {
		t.Error("unknown field should be nil")
	}
}

func TestIsObjectType(t *testing.T) {
	if !IsObjectType(Typ[Object]) {
		t.Error("Object is an object type")
	}
	if !IsObjectType(NewNamed("Collection")) {
		t.Error("named class types are object types")
	}
	if IsObjectType(Typ[Long]) {
		t.Error("Long is not an object type")
	}
}
