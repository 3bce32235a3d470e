package types

import "strings"

// Compat describes the result of an assignment compatibility check.
type Compat struct {
	Valid    bool   // the assignment is allowed at all
	Lossless bool   // no information can be lost
	Note     string // short human-readable reason when Valid is false or lossy
}

// System answers type questions for semantic analysis. A System carries
// the predeclared types plus the module's own record and enum types.
type System interface {
	// GetType resolves a type name, case-insensitive.
	// Returns nil for an unknown name.
	GetType(name string) Type

	// CheckCompatibility reports whether a value of type from can be
	// assigned to a location of type to, and whether the conversion is
	// lossless.
	CheckCompatibility(from, to Type) Compat

	// IsNumeric reports whether t participates in arithmetic.
	IsNumeric(t Type) bool
}

// StdSystem is the standard type system: the predeclared basic types plus
// registered user-defined types.
type StdSystem struct {
	user map[string]Type // lowercased name -> record/enum/class type
}

// NewSystem creates a StdSystem with no user types registered.
func NewSystem() *StdSystem {
	return &StdSystem{user: make(map[string]Type)}
}

// Register adds a user-defined type under its name (case-insensitive).
// The first registration wins.
func (s *StdSystem) Register(name string, t Type) {
	key := strings.ToLower(name)
	if _, ok := s.user[key]; !ok {
		s.user[key] = t
	}
}

// GetType implements System.
func (s *StdSystem) GetType(name string) Type {
	if b := LookupBasic(name); b != nil {
		return b
	}
	if t, ok := s.user[strings.ToLower(name)]; ok {
		return t
	}
	return nil
}

// IsNumeric implements System. Enum values behave as Long.
func (s *StdSystem) IsNumeric(t Type) bool {
	switch t := t.(type) {
	case *Basic:
		return t.info&IsNumeric != 0 || t.kind == Variant
	case *Enum:
		return true
	}
	return false
}

// CheckCompatibility implements System.
//
// Numeric conversions follow the widening order
// Byte < Integer < Long < Single < Double < Currency: widening is
// lossless, narrowing is allowed but lossy. Variant converts freely in
// both directions. Numeric and String never convert implicitly.
func (s *StdSystem) CheckCompatibility(from, to Type) Compat {
	if from == nil || to == nil {
		return Compat{Note: "unknown type"}
	}
	if from == to {
		return Compat{Valid: true, Lossless: true}
	}

	// The dynamic type accepts and produces anything.
	if isVariant(from) || isVariant(to) {
		return Compat{Valid: true, Lossless: true}
	}

	// Enums are Long-valued.
	ef, enumFrom := from.(*Enum)
	et, enumTo := to.(*Enum)
	if enumFrom && enumTo {
		if ef == et {
			return Compat{Valid: true, Lossless: true}
		}
		return Compat{Valid: true, Lossless: false, Note: "mixing distinct enums"}
	}
	if enumFrom {
		return s.CheckCompatibility(Typ[Long], to)
	}
	if enumTo {
		return s.CheckCompatibility(from, Typ[Long])
	}

	bf, fromBasic := from.(*Basic)
	bt, toBasic := to.(*Basic)

	if fromBasic && toBasic {
		switch {
		case bf.kind == bt.kind:
			return Compat{Valid: true, Lossless: true}

		case bf.rank > 0 && bt.rank > 0:
			if bf.rank <= bt.rank {
				return Compat{Valid: true, Lossless: true}
			}
			return Compat{
				Valid:    true,
				Lossless: false,
				Note:     "narrowing " + bf.name + " to " + bt.name + " may lose information",
			}

		case bf.kind == Boolean && bt.rank > 0,
			bf.rank > 0 && bt.kind == Boolean:
			return Compat{Valid: true, Lossless: false, Note: "boolean and numeric conversion"}

		case bf.kind == Date && bt.kind == Double,
			bf.kind == Double && bt.kind == Date:
			return Compat{Valid: true, Lossless: false, Note: "date and double conversion"}
		}
		return Compat{Note: "cannot convert " + bf.name + " to " + bt.name}
	}

	// Object references assign to each other and to the generic Object.
	if IsObjectType(from) && IsObjectType(to) {
		return Compat{Valid: true, Lossless: true}
	}

	// Records assign only to the identical record type, handled above.
	return Compat{Note: "cannot convert " + from.String() + " to " + to.String()}
}

func isVariant(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.kind == Variant
}
