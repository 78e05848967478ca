package ast

// TypeExpr is the syntactic form of a type annotation, as written in source
// (spec.md §3 "type expression"), resolved against the closed type set by
// the analyzer (pkg/types) rather than by the parser itself.
type TypeExpr interface {
	Node
	typeExprNode()
}

func (*NamedTypeExpr) typeExprNode()  {}
func (*GenericTypeExpr) typeExprNode() {}
func (*MapTypeExpr) typeExprNode()    {}

// NamedTypeExpr is a bare type name: `Int`, `Bool`, `Pos`, `MyEntity`, ...
type NamedTypeExpr struct {
	baseNode
	Name string
}

// GenericTypeExpr is a single-argument generic type: `List[Int]`,
// `Engroup[MyEntity]` (spec.md §3 "Engroup[T]").
type GenericTypeExpr struct {
	baseNode
	Name string
	Arg  TypeExpr
}

// MapTypeExpr is `Map[K, V]` (spec.md §3 "map from K to V").
type MapTypeExpr struct {
	baseNode
	Key   TypeExpr
	Value TypeExpr
}

// ParamFlavor enumerates a function's calling convention flavors (spec.md
// §4.4: "runtime / inline / compile-time").
type ParamFlavor string

// Recognized function flavors.
const (
	FlavorRuntime    ParamFlavor = "runtime"
	FlavorInline     ParamFlavor = "inline"
	FlavorCompileTime ParamFlavor = "compiletime"
)

// ParamPort enumerates a parameter's passing convention (spec.md §4.4:
// "by-value / by-reference / const").
type ParamPort string

// Recognized parameter ports.
const (
	PortValue ParamPort = "value"
	PortRef   ParamPort = "ref"
	PortConst ParamPort = "const"
)

// Param is one function parameter, with its port, type, and optional
// default value (spec.md §4.4 "function ports").
type Param struct {
	Name     string
	Port     ParamPort
	TypeExpr TypeExpr
	Default  Expr // nil when no default is given
}

func (*FuncDef) stmtNode()      {}
func (*EntityDef) stmtNode()    {}
func (*StructDef) stmtNode()    {}
func (*InterfaceDef) stmtNode() {}

// MethodQualifier enumerates the qualifiers that may prefix a method
// defined inside an entity template (spec.md §4.5: "new / virtual /
// override / static").
type MethodQualifier string

// Recognized method qualifiers.  The zero value means "ordinary instance
// method" (no qualifier).
const (
	QualifierNone     MethodQualifier = ""
	QualifierNew      MethodQualifier = "new"
	QualifierVirtual  MethodQualifier = "virtual"
	QualifierOverride MethodQualifier = "override"
	QualifierStatic   MethodQualifier = "static"
)

// FuncDef is a function or method definition: `def name(params) [-> Type]:
// body` (spec.md §4.4 "function definition").  Used both at module level
// (plain function) and inside an EntityDef/StructDef body (method), where
// Qualifier records the entity-method modifier if any.
type FuncDef struct {
	baseNode
	Name       string
	Flavor     ParamFlavor
	Qualifier  MethodQualifier
	Params     []Param
	ResultType TypeExpr // nil when the function has no declared result type
	Body       []Stmt
}

// EntityField is one attribute declared directly inside an entity template
// body (spec.md §4.5 "entity attribute").
type EntityField struct {
	Name     string
	TypeExpr TypeExpr
	Default  Expr
}

// EntityDef is `entity Name(Base1, Base2, ...) "entity-type" [at spawn-expr]:
// body`, declaring an entity template with zero or more base templates
// combined via C3 linearization, a Minecraft entity-type string, and an
// optional spawn-position expression (spec.md §3 "Entity template": "Name,
// list of direct base templates, entity-type string, optional
// spawn-position expression ...").
type EntityDef struct {
	baseNode
	Name    string
	Bases   []string
	// EntityType is the Minecraft entity-type id a `new`-triggered summon
	// uses, e.g. "minecraft:armor_stand"; "" when every base in the MRO
	// already fixes one (inherited rather than redeclared).
	EntityType string
	// SpawnPos is the optional `at` clause, nil when absent. It is parsed
	// and inherited along the MRO, but the analyzer's summon always spawns
	// at "~ ~ ~" whether or not it is set.
	SpawnPos Expr
	Fields   []EntityField
	Methods  []*FuncDef
}

// StructFieldDecl is one field of a struct definition (spec.md §3 "struct
// instance type").
type StructFieldDecl struct {
	Name     string
	TypeExpr TypeExpr
	Default  Expr
}

// StructDef is `struct Name: body`, declaring a compile-time composite
// value type (spec.md §4.5 "struct definition").
type StructDef struct {
	baseNode
	Name   string
	Fields []StructFieldDecl
}

// InterfaceMethodSig is one method signature declared by an interface
// (spec.md §4.5 "interface definition"): entities implementing the
// interface must provide a matching virtual method.
type InterfaceMethodSig struct {
	Name       string
	Params     []Param
	ResultType TypeExpr
}

// InterfaceDef is `interface Name: body`, a named set of method signatures
// used for virtual dispatch across unrelated entity template hierarchies.
type InterfaceDef struct {
	baseNode
	Name    string
	Methods []InterfaceMethodSig
}
