// Package types defines the type vocabulary and symbol tables used by
// semantic analysis.
package types

import "strings"

// Type is the interface implemented by all types.
type Type interface {
	// String returns the canonical spelling of the type.
	String() string

	aType() // marker method to restrict implementations
}

// typ is the base struct embedded in all types.
type typ struct{}

func (*typ) aType() {}

// Kind describes the kind of basic type.
type Kind int

const (
	Invalid Kind = iota // invalid type

	Variant // dynamic type, default for undeclared variables
	Byte
	Integer
	Long
	Single
	Double
	Currency
	Boolean
	String
	Date
	Object
)

// Info describes properties of a basic type.
type Info int

const (
	IsNumeric Info = 1 << iota
	IsIntegral
	IsFloating
	IsTextual
	IsDynamic
)

// Basic represents one of the predeclared value types.
type Basic struct {
	typ
	kind Kind
	info Info
	name string
	rank int // position in the numeric widening order, 0 if non-numeric
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() Kind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() Info {
	return b.info
}

// Rank returns the widening rank of a numeric type. Conversions to a
// higher rank are lossless; conversions to a lower rank lose information.
func (b *Basic) Rank() int {
	return b.rank
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by Kind.
// Typ[Invalid] is nil, representing an invalid type.
var Typ = []*Basic{
	Invalid:  nil,
	Variant:  {kind: Variant, info: IsDynamic, name: "Variant"},
	Byte:     {kind: Byte, info: IsNumeric | IsIntegral, name: "Byte", rank: 1},
	Integer:  {kind: Integer, info: IsNumeric | IsIntegral, name: "Integer", rank: 2},
	Long:     {kind: Long, info: IsNumeric | IsIntegral, name: "Long", rank: 3},
	Single:   {kind: Single, info: IsNumeric | IsFloating, name: "Single", rank: 4},
	Double:   {kind: Double, info: IsNumeric | IsFloating, name: "Double", rank: 5},
	Currency: {kind: Currency, info: IsNumeric, name: "Currency", rank: 6},
	Boolean:  {kind: Boolean, name: "Boolean"},
	String:   {kind: String, info: IsTextual, name: "String"},
	Date:     {kind: Date, name: "Date"},
	Object:   {kind: Object, name: "Object"},
}

// basicByName maps lowercased type names to predeclared types.
var basicByName = func() map[string]*Basic {
	m := make(map[string]*Basic, len(Typ))
	for _, b := range Typ {
		if b != nil {
			m[strings.ToLower(b.name)] = b
		}
	}
	return m
}()

// LookupBasic returns the predeclared type with the given name
// (case-insensitive), or nil.
func LookupBasic(name string) *Basic {
	return basicByName[strings.ToLower(name)]
}

// SuffixType returns the type implied by a declaration character,
// nil for an unknown suffix.
func SuffixType(suffix string) *Basic {
	switch suffix {
	case "%":
		return Typ[Integer]
	case "&":
		return Typ[Long]
	case "!":
		return Typ[Single]
	case "#":
		return Typ[Double]
	case "@":
		return Typ[Currency]
	case "$":
		return Typ[String]
	}
	return nil
}

// Record represents a user-defined record type (Type ... End Type).
type Record struct {
	typ
	name   string
	fields []*Symbol // field symbols, in declaration order
}

// NewRecord creates a record type with the given fields.
func NewRecord(name string, fields []*Symbol) *Record {
	return &Record{name: name, fields: fields}
}

// Field returns the field with the given name (case-insensitive), or nil.
func (r *Record) Field(name string) *Symbol {
	for _, f := range r.fields {
		if strings.EqualFold(f.Name(), name) {
			return f
		}
	}
	return nil
}

// Fields returns the record's fields in declaration order.
func (r *Record) Fields() []*Symbol {
	return r.fields
}

// String implements Type.
func (r *Record) String() string {
	return r.name
}

// Enum represents a user-defined enumeration. Its values behave as Long.
type Enum struct {
	typ
	name string
}

// NewEnum creates an enum type.
func NewEnum(name string) *Enum {
	return &Enum{name: name}
}

// String implements Type.
func (e *Enum) String() string {
	return e.name
}

// Array represents an array over an element type.
type Array struct {
	typ
	elem Type
	dims int // declared dimension count, 0 for a dynamic array
}

// NewArray creates an array type.
func NewArray(elem Type, dims int) *Array {
	return &Array{elem: elem, dims: dims}
}

// Elem returns the element type.
func (a *Array) Elem() Type {
	return a.elem
}

// Dims returns the declared dimension count.
func (a *Array) Dims() int {
	return a.dims
}

// String implements Type.
func (a *Array) String() string {
	return a.elem.String() + "()"
}

// Named represents a reference to a class or library object type that is
// not structurally known (Excel.Worksheet, Collection, ...).
type Named struct {
	typ
	name string
}

// NewNamed creates a named object type.
func NewNamed(name string) *Named {
	return &Named{name: name}
}

// String implements Type.
func (n *Named) String() string {
	return n.name
}

// IsObjectType reports whether t holds object references
// (assigned with Set rather than Let).
func IsObjectType(t Type) bool {
	switch t := t.(type) {
	case *Basic:
		return t.kind == Object
	case *Named:
		return true
	}
	return false
}
