package analyzer

import (
	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/emitter"
	"github.com/acaciamc/acacia/pkg/ir"
	"github.com/acaciamc/acacia/pkg/types"
	"github.com/acaciamc/acacia/pkg/util/source"
)

// AttrInfo is one merged entity attribute: its type and its allocated
// runtime storage (spec.md §4.5 step 4: "scoreboard slot per int/bool
// attribute; tag per boolean-class attribute").
type AttrInfo struct {
	Name string
	Type types.Type
	Slot string // populated for scoreboard-backed attributes (Int)
	Tag  string // populated for tag-backed attributes (Bool)
}

// MethodInfo is one merged entity method: its definition, the template
// that contributes it, and its qualifier.
type MethodInfo struct {
	Def       *ast.FuncDef
	Owner     string
	Qualifier ast.MethodQualifier
}

// Template is a fully resolved entity template: its MRO, merged attribute
// and method dictionaries, and whether a `new` method exists anywhere in
// its MRO (spec.md §3 "Entity template").
type Template struct {
	Name       string
	Bases      []string
	MRO        []string
	// EntityType is the Minecraft entity-type id a summon of this template
	// spawns, inherited from the nearest base in Bases order when this
	// template does not redeclare its own (spec.md §3 "entity-type string").
	EntityType string
	// SpawnPos is the optional spawn-position expression, likewise
	// inherited when unset (spec.md §3 "optional spawn-position
	// expression").
	SpawnPos   ast.Expr
	Attrs      map[string]AttrInfo
	AttrOrder  []string
	Methods    map[string]MethodInfo
	DispatchTag string
}

// Registry holds every entity template and struct template defined in a
// compilation, keyed by name, supporting re-entrant definition in
// declaration order.
type Registry struct {
	templates map[string]*Template
	structs   map[string]*types.Struct
	file      *source.File
}

// NewRegistry constructs an empty entity/struct template registry.
func NewRegistry(file *source.File) *Registry {
	return &Registry{make(map[string]*Template), make(map[string]*types.Struct), file}
}

// Get returns the named entity template, if previously defined.
func (r *Registry) Get(name string) (*Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// GetStruct returns the named struct template, if previously defined.
func (r *Registry) GetStruct(name string) (*types.Struct, bool) {
	s, ok := r.structs[name]
	return s, ok
}

// DefineStruct registers a struct template's field dictionary (spec.md
// §4.5 "struct definition"); fields are resolved by the caller since type
// resolution needs access to the caller's own type-expression resolver.
func (r *Registry) DefineStruct(def *ast.StructDef, fields []types.StructField) (*types.Struct, *diag.Error) {
	if _, exists := r.structs[def.Name]; exists {
		return nil, diag.New(r.file, def.Span(), diag.ShadowedName, "struct %q is already defined", def.Name)
	}

	s := &types.Struct{TemplateName: def.Name, Fields: fields}
	r.structs[def.Name] = s

	return s, nil
}

// Define resolves and registers an entity template from its AST definition,
// implementing the five validation steps of spec.md §4.5.  On any failure
// no partial template is registered (spec.md §8 invariant 2).
func (r *Registry) Define(def *ast.EntityDef, em *emitter.Emitter) (*Template, *diag.Error) {
	baseMROs := make([][]string, 0, len(def.Bases))
	baseTemplates := make([]*Template, 0, len(def.Bases))

	for _, baseName := range def.Bases {
		base, ok := r.templates[baseName]
		if !ok {
			return nil, diag.New(r.file, def.Span(), diag.NameNotDefined,
				"base template %q is not defined", baseName)
		}

		baseMROs = append(baseMROs, base.MRO)
		baseTemplates = append(baseTemplates, base)
	}

	// Step 1: C3 linearization.
	mro, err := Linearize(def.Span(), r.file, def.Name, baseMROs, def.Bases)
	if err != nil {
		return nil, err
	}

	tmpl := &Template{
		Name:       def.Name,
		Bases:      def.Bases,
		MRO:        mro,
		EntityType: def.EntityType,
		SpawnPos:   def.SpawnPos,
		Attrs:      make(map[string]AttrInfo),
		Methods:    make(map[string]MethodInfo),
	}

	// An entity-type string and spawn-position expression are inherited
	// from the nearest direct base that declares one, in Bases order, when
	// this definition does not redeclare its own.
	for _, base := range baseTemplates {
		if tmpl.EntityType == "" && base.EntityType != "" {
			tmpl.EntityType = base.EntityType
		}

		if tmpl.SpawnPos == nil && base.SpawnPos != nil {
			tmpl.SpawnPos = base.SpawnPos
		}
	}

	// Step 2: merge attribute dictionaries along the MRO, furthest
	// ancestor first. A name already merged keeps its first entry; the
	// same name with a different type is rejected, and so is a field the
	// template itself redeclares (mergeOwnAttrs).
	for i := len(mro) - 1; i >= 0; i-- {
		owner := mro[i]
		if owner == def.Name {
			if aerr := r.mergeOwnAttrs(tmpl, def); aerr != nil {
				return nil, aerr
			}

			continue
		}

		base := baseByName(baseTemplates, owner)
		if base == nil {
			continue
		}

		for _, name := range base.AttrOrder {
			if existing, ok := tmpl.Attrs[name]; ok && !existing.Type.Equals(base.Attrs[name].Type) {
				return nil, diag.New(r.file, def.Span(), diag.EFieldMultipleDefs,
					"attribute %q redefined with a different type", name)
			}

			if _, ok := tmpl.Attrs[name]; !ok {
				tmpl.Attrs[name] = base.Attrs[name]
				tmpl.AttrOrder = append(tmpl.AttrOrder, name)
			}
		}
	}

	// Step 3: merge method dictionaries along the MRO, enforcing the
	// qualifier-consistency rules.
	newMethodOwner := ""

	for i := len(mro) - 1; i >= 0; i-- {
		owner := mro[i]

		var methods []*ast.FuncDef
		if owner == def.Name {
			methods = def.Methods
		} else if base := baseByName(baseTemplates, owner); base != nil {
			methods = methodDefsOf(base)
		}

		for _, m := range methods {
			if prev, had := tmpl.Methods[m.Name]; had && prev.Def == m {
				continue
			}

			if _, clash := tmpl.Attrs[m.Name]; clash {
				return nil, diag.New(r.file, m.Span(), diag.MethodAttrConflict,
					"method %q conflicts with an attribute of the same name", m.Name)
			}

			if m.Qualifier == ast.QualifierNew {
				if newMethodOwner != "" && newMethodOwner != owner {
					return nil, diag.New(r.file, m.Span(), diag.MultipleNewMethods,
						"at most one new method is permitted across an entity's MRO")
				}

				newMethodOwner = owner
			}

			existing, had := tmpl.Methods[m.Name]
			if had {
				if verr := checkOverride(r.file, existing, m, owner); verr != nil {
					return nil, verr
				}
			}

			tmpl.Methods[m.Name] = MethodInfo{Def: m, Owner: owner, Qualifier: m.Qualifier}
		}
	}

	// Step 4: allocate per-instance storage.
	for _, name := range tmpl.AttrOrder {
		attr := tmpl.Attrs[name]
		if attr.Slot == "" && attr.Tag == "" {
			switch attr.Type.Kind() {
			case types.KindInt:
				attr.Slot = em.AllocSlot()
			case types.KindBool:
				attr.Tag = em.AllocTag()
			case types.KindStruct:
				if !attr.Type.StorableAsEntityField() {
					return nil, diag.New(r.file, def.Span(), diag.UnsupportedEFieldInStruct,
						"struct attribute %q has a field type unsupported on entities", name)
				}
			}

			tmpl.Attrs[name] = attr
		}
	}

	// Step 5: allocate the dispatch tag used to guard this template's
	// overriding method bodies (spec.md §4.5 step 5).
	tmpl.DispatchTag = em.AllocTag()

	r.templates[def.Name] = tmpl

	return tmpl, nil
}

func (r *Registry) mergeOwnAttrs(tmpl *Template, def *ast.EntityDef) *diag.Error {
	for _, f := range def.Fields {
		if _, exists := tmpl.Attrs[f.Name]; exists {
			return diag.New(r.file, def.Span(), diag.EFieldMultipleDefs,
				"attribute %q defined more than once", f.Name)
		}

		tmpl.Attrs[f.Name] = AttrInfo{Name: f.Name}
		tmpl.AttrOrder = append(tmpl.AttrOrder, f.Name)
	}

	return nil
}

// checkOverride validates spec.md §4.5 step 3's override rules: a method
// marked override must shadow a virtual with an identical result type and
// the override qualifier; static/non-static mismatches are rejected
// outright; redefining an unrelated virtual from another base is rejected.
func checkOverride(file *source.File, existing MethodInfo, next *ast.FuncDef, owner string) *diag.Error {
	if existing.Qualifier == ast.QualifierStatic && next.Qualifier != ast.QualifierStatic {
		return diag.New(file, next.Span(), diag.InstOverrideStatic,
			"method %q overrides a static method with an instance method", next.Name)
	}

	if existing.Qualifier != ast.QualifierStatic && next.Qualifier == ast.QualifierStatic {
		return diag.New(file, next.Span(), diag.StaticOverrideInst,
			"method %q overrides an instance method with a static method", next.Name)
	}

	switch next.Qualifier {
	case ast.QualifierOverride:
		if existing.Qualifier != ast.QualifierVirtual {
			return diag.New(file, next.Span(), diag.NotOverriding,
				"method %q marked override does not shadow a virtual method", next.Name)
		}

		if !resultTypesEqual(existing.Def.ResultType, next.ResultType) {
			return diag.New(file, next.Span(), diag.OverrideResultMismatch,
				"method %q overrides with a different result type", next.Name)
		}
	case ast.QualifierVirtual:
		if existing.Qualifier == ast.QualifierVirtual && existing.Owner != owner {
			return diag.New(file, next.Span(), diag.MultipleVirtualMethod,
				"method %q is declared virtual by more than one unrelated base", next.Name)
		}
	case ast.QualifierNone:
		if existing.Qualifier == ast.QualifierVirtual {
			return diag.New(file, next.Span(), diag.OverrideQualifier,
				"method %q shadows a virtual method but is missing the override qualifier", next.Name)
		}
	}

	return nil
}

// resultTypesEqual compares two syntactic result-type annotations
// structurally by name; the analyzer's full type resolution happens
// earlier in the walk, so by the time override-checking runs both
// annotations name the same closed-set type if and only if they are
// textually identical named or generic types.
func resultTypesEqual(a, b ast.TypeExpr) bool {
	if a == nil || b == nil {
		return a == b
	}

	an, aok := a.(*ast.NamedTypeExpr)
	bn, bok := b.(*ast.NamedTypeExpr)

	return aok && bok && an.Name == bn.Name
}

func baseByName(bases []*Template, name string) *Template {
	for _, b := range bases {
		if b.Name == name {
			return b
		}
	}

	return nil
}

func methodDefsOf(t *Template) []*ast.FuncDef {
	defs := make([]*ast.FuncDef, 0, len(t.Methods))
	for _, m := range t.Methods {
		defs = append(defs, m.Def)
	}

	return defs
}

// DispatchInstrs produces the virtual dispatch instructions for one entity
// instance at creation time: a single TagAdd of the template's DispatchTag.
// No per-method tags are emitted.
func (t *Template) DispatchInstrs(selector string) []ir.Instr {
	return []ir.Instr{&ir.TagAdd{Selector: selector, Name: t.DispatchTag}}
}
