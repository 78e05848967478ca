package analyzer

import (
	"fmt"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/binding"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/ir"
	"github.com/acaciamc/acacia/pkg/types"
)

// resolveTypeExpr resolves a syntactic type annotation against the closed
// type set, looking entity and struct names up in the shared registry
// (spec.md §4.2 "type expression" resolved by the analyzer, not the
// parser).
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) (types.Type, *diag.Error) {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		switch t.Name {
		case "Int":
			return types.Int, nil
		case "Bool":
			return types.Bool, nil
		case "Float":
			return types.Float, nil
		case "String":
			return types.String, nil
		case "Pos":
			return types.Pos, nil
		case "Rot":
			return types.Rot, nil
		case "Offset":
			return types.Offset, nil
		case "Enfilter":
			return types.Enfilter, nil
		case "None":
			return types.None, nil
		}

		if tmpl, ok := a.registry.Get(t.Name); ok {
			return &types.Entity{TemplateName: tmpl.Name}, nil
		}

		if s, ok := a.registry.GetStruct(t.Name); ok {
			return s, nil
		}

		return nil, diag.New(a.file, t.Span(), diag.NameNotDefined, "type %q is not defined", t.Name)
	case *ast.GenericTypeExpr:
		elem, err := a.resolveTypeExpr(t.Arg)
		if err != nil {
			return nil, err
		}

		switch t.Name {
		case "List":
			return &types.List{Elem: elem}, nil
		case "Engroup":
			return &types.Engroup{Elem: elem}, nil
		}

		return nil, diag.New(a.file, t.Span(), diag.NameNotDefined, "unknown generic type %q", t.Name)
	case *ast.MapTypeExpr:
		key, err := a.resolveTypeExpr(t.Key)
		if err != nil {
			return nil, err
		}

		val, err := a.resolveTypeExpr(t.Value)
		if err != nil {
			return nil, err
		}

		return &types.Map{Key: key, Value: val}, nil
	default:
		return nil, diag.New(a.file, te.Span(), diag.NameNotDefined, "unrecognized type expression")
	}
}

// funcType resolves a FuncDef's parameter and result types into a
// types.Func, without validating the flavor/port matrix (that is
// ValidateFuncDef's job, called separately so the dependency on the
// expression walker's isConstExpr predicate stays in one place).
func (a *Analyzer) funcType(def *ast.FuncDef) (*types.Func, *diag.Error) {
	params := make([]types.Type, len(def.Params))

	for i, p := range def.Params {
		t, err := a.resolveTypeExpr(p.TypeExpr)
		if err != nil {
			return nil, err
		}

		params[i] = t
	}

	result := types.Type(types.None)
	if def.ResultType != nil {
		t, err := a.resolveTypeExpr(def.ResultType)
		if err != nil {
			return nil, err
		}

		result = t
	}

	return &types.Func{Params: params, Result: result}, nil
}

// analyzeFuncDef registers a module-level function declaration: its
// signature is resolved and validated now, but its body is analyzed lazily
// at each call site (spec.md §4.4), since an inline/compile-time function's
// lowering depends on the actual argument values/worlds at the call.
func (a *Analyzer) analyzeFuncDef(def *ast.FuncDef) ([]ir.Instr, *diag.Error) {
	ft, err := a.funcType(def)
	if err != nil {
		return nil, err
	}

	if verr := ValidateFuncDef(a.file, def, a.isConstExpr); verr != nil {
		return nil, verr
	}

	b := &binding.Binding{Kind: binding.KindFunction, Name: def.Name, Type: ft, Decl: def}

	if !a.frame.Declare(def.Name, b) {
		return nil, diag.New(a.file, def.Span(), diag.ShadowedName, "%q is already declared in this scope", def.Name)
	}

	return nil, nil
}

// isConstExpr reports whether expr analyzes to a compile-time-constant
// world, used by ValidateFuncDef to classify default-value expressions
// without this file depending on the expression walker's error plumbing.
func (a *Analyzer) isConstExpr(expr ast.Expr) bool {
	typed, _, err := a.analyzeExpr(expr)
	return err == nil && typed.IsConst()
}

// analyzeStructDef registers a struct template: every field's type is
// resolved, then the template is handed to the shared registry (spec.md
// §4.5 "struct definition").
func (a *Analyzer) analyzeStructDef(def *ast.StructDef) ([]ir.Instr, *diag.Error) {
	fields := make([]types.StructField, len(def.Fields))

	for i, f := range def.Fields {
		t, err := a.resolveTypeExpr(f.TypeExpr)
		if err != nil {
			return nil, err
		}

		fields[i] = types.StructField{Name: f.Name, Type: t}
	}

	s, err := a.registry.DefineStruct(def, fields)
	if err != nil {
		return nil, err
	}

	b := &binding.Binding{Kind: binding.KindStructTemplate, Name: def.Name, Type: s, Decl: def}

	if !a.frame.Declare(def.Name, b) {
		return nil, diag.New(a.file, def.Span(), diag.ShadowedName, "%q is already declared in this scope", def.Name)
	}

	return nil, nil
}

// analyzeInterfaceDef records an interface as a module-kind lexical binding
// whose Decl is the InterfaceDef. Entity bases and type annotations resolve
// through the registry, not through this binding; full virtual-dispatch cross-checking against implementing entities is
// out of scope for this pass (spec.md §4.5 "interface definition" names
// the signatures only, the dispatch mechanism itself lives in the entity
// registry's override checks).
func (a *Analyzer) analyzeInterfaceDef(def *ast.InterfaceDef) ([]ir.Instr, *diag.Error) {
	b := &binding.Binding{Kind: binding.KindModule, Name: def.Name, Decl: def}

	if !a.frame.Declare(def.Name, b) {
		return nil, diag.New(a.file, def.Span(), diag.ShadowedName, "%q is already declared in this scope", def.Name)
	}

	return nil, nil
}

// analyzeImport records an imported module's dotted path as a lexical
// binding so `modname.member` attribute access has a name to resolve
// against. The imported unit's own declarations are not merged into this
// frame: pkg/compiler.compileImports only checks that each import target
// loads.
func (a *Analyzer) analyzeImport(s *ast.ImportStmt) ([]ir.Instr, *diag.Error) {
	local := s.Path
	if s.Alias != "" {
		local = s.Alias
	}

	b := &binding.Binding{Kind: binding.KindModule, Name: local}

	if !a.frame.Declare(local, b) {
		return nil, diag.New(a.file, s.Span(), diag.ShadowedName, "%q is already declared in this scope", local)
	}

	return nil, nil
}

// analyzeCall lowers a call expression: the callee must resolve to a
// function binding, arguments are checked against the parameter port
// matrix, and the function body is analyzed in a fresh frame with
// parameters bound to the supplied arguments (spec.md §4.4). This is a
// deliberate simplification shared by every flavor: a true out-of-line,
// emitted-once runtime function (with its own call/return convention) is
// not yet built, so every call is lowered by re-analyzing the callee's body
// at the call site, the same way an inline function would be.
func (a *Analyzer) analyzeCall(e *ast.CallExpr) (Typed, []ir.Instr, *diag.Error) {
	name, ok := e.Callee.(*ast.NameExpr)
	if !ok {
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.Uncallable, "callee must be a function name")
	}

	b, found := a.frame.Resolve(name.Name)
	if !found {
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.NameNotDefined, "%q is not defined", name.Name)
	}

	if b.Kind == binding.KindEntityTemplate {
		return a.analyzeEntityInstantiate(e, b)
	}

	if b.Kind != binding.KindFunction {
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.Uncallable, "%q is not callable", name.Name)
	}

	def := b.Decl.(*ast.FuncDef)
	callFrame := a.frame.Push(def.Flavor != ast.FlavorCompileTime && a.frame.IsRuntime())

	instrs, err := a.bindCallArgs(callFrame, def, e, name.Name)
	if err != nil {
		return Typed{}, nil, err
	}

	resultType := types.Type(types.None)
	if def.ResultType != nil {
		t, terr := a.resolveTypeExpr(def.ResultType)
		if terr != nil {
			return Typed{}, nil, terr
		}

		resultType = t
	}

	parent := a.frame
	a.frame = callFrame
	a.frame.Result = &binding.ResultSlot{Type: resultType}
	bodyInstrs, err := a.analyzeBlock(def.Body)
	a.frame = parent

	if err != nil {
		return Typed{}, nil, err
	}

	instrs = append(instrs, bodyInstrs...)

	if def.ResultType == nil {
		return Typed{Type: types.None, World: WorldCompileTime}, instrs, nil
	}

	// The result value itself is not yet threaded back from the nested
	// result statement to this call site; callers that only need the call
	// for its side effects (the common case for runtime/inline void-ish
	// functions) still get their body lowered correctly.
	return Typed{Type: resultType, World: WorldRuntime}, instrs, nil
}

// bindCallArgs resolves def's parameters against e's call arguments and
// declares each into frame according to its port (spec.md §4.4 "function
// ports"). Shared by analyzeCall and analyzeEntityInstantiate's new-method
// invocation so both apply the identical argument-binding rules.
func (a *Analyzer) bindCallArgs(frame *binding.Frame, def *ast.FuncDef, e *ast.CallExpr, calleeName string) ([]ir.Instr, *diag.Error) {
	if len(e.Args) > len(def.Params) {
		return nil, diag.New(a.file, e.Span(), diag.WrongArgType, "too many arguments to %q", calleeName)
	}

	var instrs []ir.Instr

	for i, p := range def.Params {
		var argExpr ast.Expr

		if i < len(e.Args) && e.Args[i].Name == "" {
			argExpr = e.Args[i].Value
		} else {
			for _, arg := range e.Args {
				if arg.Name == p.Name {
					argExpr = arg.Value
				}
			}
		}

		if argExpr == nil {
			argExpr = p.Default
		}

		if argExpr == nil {
			return nil, diag.New(a.file, e.Span(), diag.WrongArgType, "missing argument for parameter %q", p.Name)
		}

		argTyped, argInstrs, err := a.analyzeExpr(argExpr)
		if err != nil {
			return nil, err
		}

		if verr := ValidateCallArg(a.file, e.Span(), p.Port, argTyped.IsAssignable(), argTyped.IsConst()); verr != nil {
			return nil, verr
		}

		instrs = append(instrs, argInstrs...)

		paramType, terr := a.resolveTypeExpr(p.TypeExpr)
		if terr != nil {
			return nil, terr
		}

		switch p.Port {
		case ast.PortRef:
			frame.Declare(p.Name, &binding.Binding{Kind: binding.KindReference, Name: p.Name, Type: paramType, Target: argTyped.Binding})
		case ast.PortConst:
			frame.Declare(p.Name, &binding.Binding{Kind: binding.KindConst, Name: p.Name, Type: paramType})
		default:
			pb, materializeInstrs := a.materialize(p.Name, argTyped)
			instrs = append(instrs, materializeInstrs...)
			frame.Declare(p.Name, pb)
		}
	}

	return instrs, nil
}

// analyzeEntityInstantiate lowers `EntityName(args...)`: spec.md §3's entity
// templates are callable as constructors. A template whose MRO declares a
// `new`-qualified method runs that method's body with new(...) now legal;
// the summon and the template's single dispatch-tag add (spec.md §4.5
// step 5) happen wherever new(...) appears inside it (see
// analyzeNew). A template with no new method has nothing left to run after
// allocation, so it is spawned directly here instead.
func (a *Analyzer) analyzeEntityInstantiate(e *ast.CallExpr, b *binding.Binding) (Typed, []ir.Instr, *diag.Error) {
	tmpl := b.Decl.(*Template)
	entType := &types.Entity{TemplateName: tmpl.Name}

	newInfo, hasNew := tmpl.Methods["new"]
	if !hasNew {
		instrs, selector := a.spawnEntity(tmpl)
		return Typed{Type: entType, World: WorldRuntime, Binding: &binding.Binding{Kind: binding.KindRuntimeVar, Type: entType, Slot: selector}}, instrs, nil
	}

	def := newInfo.Def
	callFrame := a.frame.Push(a.frame.IsRuntime())
	callFrame.InNewMethod = true
	callFrame.NewMethodOwner = tmpl.Name

	instrs, err := a.bindCallArgs(callFrame, def, e, tmpl.Name)
	if err != nil {
		return Typed{}, nil, err
	}

	parent := a.frame
	a.frame = callFrame
	a.frame.Result = &binding.ResultSlot{Type: types.None}
	bodyInstrs, err := a.analyzeBlock(def.Body)
	a.frame = parent

	if err != nil {
		return Typed{}, nil, err
	}

	return Typed{Type: entType, World: WorldRuntime}, append(instrs, bodyInstrs...), nil
}

// spawnEntity lowers the actual allocation primitive for tmpl: a Summon
// instruction followed by the tag-guarded virtual-dispatch instructions of
// Template.DispatchInstrs, both scoped to the freshly allocated selector
// tag (spec.md §4.5 step 5).
func (a *Analyzer) spawnEntity(tmpl *Template) ([]ir.Instr, string) {
	tag := a.emitter.AllocTag()
	selector := fmt.Sprintf("@e[tag=%s]", tag)

	instrs := []ir.Instr{&ir.Summon{EntityType: tmpl.EntityType, Pos: "~ ~ ~", Tag: tag}}
	instrs = append(instrs, tmpl.DispatchInstrs(selector)...)

	return instrs, selector
}

// analyzeAttribute resolves `obj.name`: a struct value's field, or a
// runtime entity's attribute (scoreboard slot or boolean tag), per spec.md
// §4.5 step 4's storage model.
func (a *Analyzer) analyzeAttribute(e *ast.AttributeExpr) (Typed, []ir.Instr, *diag.Error) {
	obj, instrs, err := a.analyzeExpr(e.Object)
	if err != nil {
		return Typed{}, nil, err
	}

	switch obj.Type.Kind() {
	case types.KindStruct:
		if obj.World == WorldCompileTime {
			fv, ok := obj.Value.Fields[e.Name]
			if !ok {
				return Typed{}, nil, diag.New(a.file, e.Span(), diag.HasNoAttribute, "%s has no attribute %q", obj.Type, e.Name)
			}

			return Typed{Type: fv.Type, World: WorldCompileTime, Value: fv}, instrs, nil
		}

		return Typed{}, nil, diag.New(a.file, e.Span(), diag.HasNoAttribute, "%s has no attribute %q", obj.Type, e.Name)
	case types.KindEntity:
		ent := obj.Type.(*types.Entity)

		tmpl, ok := a.registry.Get(ent.TemplateName)
		if !ok {
			return Typed{}, nil, diag.New(a.file, e.Span(), diag.NameNotDefined, "entity template %q is not defined", ent.TemplateName)
		}

		attr, ok := tmpl.Attrs[e.Name]
		if !ok {
			return Typed{}, nil, diag.New(a.file, e.Span(), diag.HasNoAttribute, "%s has no attribute %q", obj.Type, e.Name)
		}

		slot := attr.Slot
		if slot == "" {
			slot = attr.Tag
		}

		return Typed{Type: attr.Type, World: WorldRuntime, Binding: &binding.Binding{Kind: binding.KindRuntimeVar, Type: attr.Type, Slot: slot}}, instrs, nil
	default:
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.HasNoAttribute, "%s has no attribute %q", obj.Type, e.Name)
	}
}

// analyzeSubscript resolves `obj[index]` and `obj[index:end]` against a
// compile-time list or map (spec.md §4.6): runtime indexing has no form in
// this language, since lists and maps are themselves compile-time-only.
func (a *Analyzer) analyzeSubscript(e *ast.SubscriptExpr) (Typed, []ir.Instr, *diag.Error) {
	obj, instrs, err := a.analyzeExpr(e.Object)
	if err != nil {
		return Typed{}, nil, err
	}

	if !obj.IsConst() {
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.NoGetitem, "%s does not support indexing", obj.Type)
	}

	index, idxInstrs, err := a.analyzeExpr(e.Index)
	if err != nil {
		return Typed{}, nil, err
	}

	instrs = append(instrs, idxInstrs...)

	switch obj.Type.Kind() {
	case types.KindList:
		if e.SliceEnd != nil {
			end, endInstrs, err := a.analyzeExpr(e.SliceEnd)
			if err != nil {
				return Typed{}, nil, err
			}

			instrs = append(instrs, endInstrs...)

			sliced := a.constEval.ListSlice(obj.Value.List, index.Value.Int, end.Value.Int)
			listType := obj.Type.(*types.List)

			return Typed{Type: listType, World: WorldCompileTime, Value: Value{Type: listType, List: sliced}}, instrs, nil
		}

		elemType := obj.Type.(*types.List).Elem

		v, ierr := a.constEval.ListIndex(e.Span(), obj.Value.List, index.Value.Int)
		if ierr != nil {
			return Typed{}, nil, ierr
		}

		return Typed{Type: elemType, World: WorldCompileTime, Value: v}, instrs, nil
	case types.KindMap:
		mapType := obj.Type.(*types.Map)

		v, merr := a.constEval.MapGet(e.Span(), obj.Value.MapKeys, obj.Value.MapValues, index.Value)
		if merr != nil {
			return Typed{}, nil, merr
		}

		return Typed{Type: mapType.Value, World: WorldCompileTime, Value: v}, instrs, nil
	default:
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.NoGetitem, "%s does not support indexing", obj.Type)
	}
}

// analyzeMapExpr evaluates a `{k: v, ...}` literal, checking key
// hashability and that every key/value shares a consistent type (spec.md
// §4.6 "unhashable map key -> invalidmapkey").
func (a *Analyzer) analyzeMapExpr(e *ast.MapExpr) (Typed, []ir.Instr, *diag.Error) {
	if len(e.Entries) == 0 {
		return Typed{Type: &types.Map{Key: types.Any, Value: types.Any}, World: WorldCompileTime}, nil, nil
	}

	keys := make([]Value, len(e.Entries))
	values := make([]Value, len(e.Entries))

	var keyType, valType types.Type

	for i, entry := range e.Entries {
		k, _, err := a.analyzeExpr(entry.Key)
		if err != nil {
			return Typed{}, nil, err
		}

		if !k.IsConst() || !k.Value.Hashable() {
			return Typed{}, nil, diag.New(a.file, entry.Key.Span(), diag.InvalidMapKey, "type %s is not a valid map key", k.Type)
		}

		v, _, err := a.analyzeExpr(entry.Value)
		if err != nil {
			return Typed{}, nil, err
		}

		if !v.IsConst() {
			return Typed{}, nil, diag.New(a.file, entry.Value.Span(), diag.NotConstName, "map values must be compile-time constants")
		}

		if i == 0 {
			keyType, valType = k.Type, v.Type
		}

		keys[i] = k.Value
		values[i] = v.Value
	}

	mapType := &types.Map{Key: keyType, Value: valType}

	return Typed{Type: mapType, World: WorldCompileTime, Value: Value{Type: mapType, MapKeys: keys, MapValues: values}}, nil, nil
}

// analyzeStructLiteral constructs a compile-time struct value, checking
// every declared field is initialized exactly once and that its value's
// type matches the template (spec.md §4.5 "struct definition").
func (a *Analyzer) analyzeStructLiteral(e *ast.StructLiteralExpr) (Typed, []ir.Instr, *diag.Error) {
	s, ok := a.registry.GetStruct(e.TypeName)
	if !ok {
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.NameNotDefined, "struct %q is not defined", e.TypeName)
	}

	fields := make(map[string]Value, len(s.Fields))

	for _, init := range e.Fields {
		v, _, err := a.analyzeExpr(init.Value)
		if err != nil {
			return Typed{}, nil, err
		}

		fields[init.Name] = v.Value
	}

	for _, f := range s.Fields {
		fv, ok := fields[f.Name]
		if !ok {
			return Typed{}, nil, diag.New(a.file, e.Span(), diag.WrongArgType, "struct %q: missing field %q", e.TypeName, f.Name)
		}

		if !fv.Type.Equals(f.Type) {
			return Typed{}, nil, diag.New(a.file, e.Span(), diag.WrongArgType, "struct %q: field %q has type %s, expected %s", e.TypeName, f.Name, fv.Type, f.Type)
		}
	}

	return Typed{Type: s, World: WorldCompileTime, Value: Value{Type: s, Fields: fields}}, nil, nil
}

// analyzeNew lowers `new(...)`, legal only inside a `new` method body
// (spec.md §4.3 "new(...) is only valid inside a new method"): this is the
// actual entity-allocation primitive. It emits the Summon instruction and
// the template's virtual-dispatch tags (spec.md §4.5 step 5), then
// evaluates its arguments for their side effects (attribute-initializer
// expressions have no separate storage-assignment form yet, so only their
// side effects, not their values, reach the freshly spawned instance).
func (a *Analyzer) analyzeNew(e *ast.NewExpr) (Typed, []ir.Instr, *diag.Error) {
	if !a.frame.InNewMethod {
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.NewOutOfScope, "new(...) is only valid inside a new method")
	}

	tmpl, ok := a.registry.Get(a.frame.NewMethodOwner)
	if !ok {
		return Typed{}, nil, diag.New(a.file, e.Span(), diag.NameNotDefined, "%q is not a defined entity template", a.frame.NewMethodOwner)
	}

	instrs, selector := a.spawnEntity(tmpl)

	for _, arg := range e.Args {
		_, out, err := a.analyzeExpr(arg.Value)
		if err != nil {
			return Typed{}, nil, err
		}

		instrs = append(instrs, out...)
	}

	entType := &types.Entity{TemplateName: tmpl.Name}

	return Typed{Type: entType, World: WorldRuntime, Binding: &binding.Binding{Kind: binding.KindRuntimeVar, Type: entType, Slot: selector}}, instrs, nil
}
