// Package types defines Acacia's closed set of first-class types (spec.md
// §3 "Types (closed set)") as tagged variants with capability queries,
// rather than as a class hierarchy -- per spec.md §9's design note ("the
// type system's runtime/compile-time categorization and storability flags
// are better expressed as tagged variants with capability queries than as a
// class hierarchy").
//
// Grounded on the teacher's pkg/schema.Type interface (AsUint/AsField
// capability accessors, Cmp, SubtypeOf), generalized from column bit-widths
// to Acacia's runtime/compile-time/storability axes.
package types

import "fmt"

// Kind discriminates the variants of Type.
type Kind uint

// The closed set of Acacia type kinds (spec.md §3).
const (
	KindInt Kind = iota
	KindBool
	KindFloat
	KindString
	KindPos
	KindRot
	KindOffset
	KindEngroup
	KindEnfilter
	KindEntity
	KindStruct
	KindList
	KindMap
	KindFunc
	KindNone
	KindAny
)

// Type is implemented by every member of Acacia's closed type set.  Each
// variant answers the three storability axes of spec.md §3 and compares
// for structural equality.
type Type interface {
	// Kind identifies which variant this is.
	Kind() Kind
	// HasRuntimeForm reports whether a value of this type can be
	// materialized as scoreboard/selector/tag storage.
	HasRuntimeForm() bool
	// HasCompileTimeForm reports whether a value of this type can exist
	// purely during analysis, without being emitted.
	HasCompileTimeForm() bool
	// StorableAsEntityField reports whether this type may back an entity
	// template attribute (spec.md §4.5 step 4).
	StorableAsEntityField() bool
	// StorableAsStructField reports whether this type may back a struct
	// template field (spec.md §3 "Struct template").
	StorableAsStructField() bool
	// Equals reports whether this type is structurally identical to other.
	Equals(other Type) bool
	// String renders this type for diagnostics.
	String() string
}

// primitive implements the capability axes shared by the fixed, argument-
// free type variants (Int, Bool, Float, String, Pos, Rot, Offset, Enfilter,
// None, Any); each is a singleton so Equals reduces to a Kind comparison.
type primitive struct {
	kind             Kind
	name             string
	runtimeForm      bool
	compileTimeForm  bool
	entityFieldOk    bool
	structFieldOk    bool
}

func (p *primitive) Kind() Kind                     { return p.kind }
func (p *primitive) HasRuntimeForm() bool           { return p.runtimeForm }
func (p *primitive) HasCompileTimeForm() bool       { return p.compileTimeForm }
func (p *primitive) StorableAsEntityField() bool    { return p.entityFieldOk }
func (p *primitive) StorableAsStructField() bool    { return p.structFieldOk }
func (p *primitive) String() string                 { return p.name }

func (p *primitive) Equals(other Type) bool {
	o, ok := other.(*primitive)
	return ok && o.kind == p.kind
}

// Singleton instances for the fixed primitive types.  Runtime is backed by
// a 32-bit scoreboard slot for Int, and by a command tag for Bool (spec.md
// §4.5 step 4: "tag per boolean-class attribute").
var (
	Int    Type = &primitive{KindInt, "Int", true, true, true, true}
	Bool   Type = &primitive{KindBool, "Bool", true, true, true, true}
	Float  Type = &primitive{KindFloat, "Float", false, true, false, true}
	String Type = &primitive{KindString, "String", false, true, false, true}
	Pos    Type = &primitive{KindPos, "Pos", false, true, false, true}
	Rot    Type = &primitive{KindRot, "Rot", false, true, false, true}
	Offset Type = &primitive{KindOffset, "Offset", false, true, false, true}
	// Enfilter values are opaque selector-fragment builders (spec.md §9
	// open question); they exist only as compile-time-composed, runtime-
	// emitted selector text, so they have neither storage form.
	Enfilter Type = &primitive{KindEnfilter, "Enfilter", false, false, false, false}
	None     Type = &primitive{KindNone, "None", false, true, false, false}
	// Any is the top type for untyped compile-time values (spec.md §3); it
	// is never itself storable.
	Any Type = &primitive{KindAny, "Any", false, true, false, false}
)

// Engroup is the `Engroup[T]` entity-group type: a runtime-only collection
// of entities of template T (spec.md §3 "Engroup[T] (entity group)").
type Engroup struct {
	Elem Type
}

func (t *Engroup) Kind() Kind                  { return KindEngroup }
func (t *Engroup) HasRuntimeForm() bool        { return true }
func (t *Engroup) HasCompileTimeForm() bool    { return false }
func (t *Engroup) StorableAsEntityField() bool { return false }
func (t *Engroup) StorableAsStructField() bool { return false }
func (t *Engroup) String() string              { return fmt.Sprintf("Engroup[%s]", t.Elem) }

func (t *Engroup) Equals(other Type) bool {
	o, ok := other.(*Engroup)
	return ok && t.Elem.Equals(o.Elem)
}

// Entity is an entity-template instance type, identified by the template's
// name (spec.md §3 "entity-template instance types").  Instances are
// runtime-only: they exist as a concrete selector-addressable entity.
type Entity struct {
	TemplateName string
}

func (t *Entity) Kind() Kind                  { return KindEntity }
func (t *Entity) HasRuntimeForm() bool        { return true }
func (t *Entity) HasCompileTimeForm() bool    { return false }
func (t *Entity) StorableAsEntityField() bool { return false }
func (t *Entity) StorableAsStructField() bool { return false }
func (t *Entity) String() string              { return t.TemplateName }

func (t *Entity) Equals(other Type) bool {
	o, ok := other.(*Entity)
	return ok && t.TemplateName == o.TemplateName
}

// Struct is a struct-template instance type, identified by the template's
// name (spec.md §3 "struct instance types").  A struct's own storability as
// an entity/struct field is derived from whether every one of its fields is
// so storable (spec.md §4.5 step 4: "structs of entity-unsupported fields
// fail with unsupportedefieldinstruct").
type Struct struct {
	TemplateName string
	Fields       []StructField
}

// StructField names one field of a struct template together with its type,
// used by Struct.StorableAsEntityField to check every field recursively.
type StructField struct {
	Name string
	Type Type
}

func (t *Struct) Kind() Kind               { return KindStruct }
func (t *Struct) HasRuntimeForm() bool     { return false }
func (t *Struct) HasCompileTimeForm() bool { return true }

func (t *Struct) StorableAsEntityField() bool {
	for _, f := range t.Fields {
		if !f.Type.StorableAsEntityField() {
			return false
		}
	}
	return true
}

func (t *Struct) StorableAsStructField() bool {
	for _, f := range t.Fields {
		if !f.Type.StorableAsStructField() {
			return false
		}
	}
	return true
}

func (t *Struct) String() string { return t.TemplateName }

func (t *Struct) Equals(other Type) bool {
	o, ok := other.(*Struct)
	return ok && t.TemplateName == o.TemplateName
}

// List is the `list of T` compile-time-only collection type (spec.md §3).
type List struct {
	Elem Type
}

func (t *List) Kind() Kind                  { return KindList }
func (t *List) HasRuntimeForm() bool        { return false }
func (t *List) HasCompileTimeForm() bool    { return true }
func (t *List) StorableAsEntityField() bool { return false }
func (t *List) StorableAsStructField() bool { return false }
func (t *List) String() string              { return fmt.Sprintf("list of %s", t.Elem) }

func (t *List) Equals(other Type) bool {
	o, ok := other.(*List)
	return ok && t.Elem.Equals(o.Elem)
}

// Map is the `map from K to V` compile-time-only type (spec.md §3).
type Map struct {
	Key   Type
	Value Type
}

func (t *Map) Kind() Kind                  { return KindMap }
func (t *Map) HasRuntimeForm() bool        { return false }
func (t *Map) HasCompileTimeForm() bool    { return true }
func (t *Map) StorableAsEntityField() bool { return false }
func (t *Map) StorableAsStructField() bool { return false }
func (t *Map) String() string              { return fmt.Sprintf("map from %s to %s", t.Key, t.Value) }

func (t *Map) Equals(other Type) bool {
	o, ok := other.(*Map)
	return ok && t.Key.Equals(o.Key) && t.Value.Equals(o.Value)
}

// Func is a function type: ordered parameter types plus a result type
// (spec.md §3 "function types").  Functions have no storage form at all --
// they are resolved at compile time to a definition, never materialized as
// a value.
type Func struct {
	Params []Type
	Result Type
}

func (t *Func) Kind() Kind                  { return KindFunc }
func (t *Func) HasRuntimeForm() bool        { return false }
func (t *Func) HasCompileTimeForm() bool    { return false }
func (t *Func) StorableAsEntityField() bool { return false }
func (t *Func) StorableAsStructField() bool { return false }

func (t *Func) String() string {
	s := "("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + t.Result.String()
}

func (t *Func) Equals(other Type) bool {
	o, ok := other.(*Func)
	if !ok || len(t.Params) != len(o.Params) || !t.Result.Equals(o.Result) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equals(o.Params[i]) {
			return false
		}
	}
	return true
}
