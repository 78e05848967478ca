package analyzer

import (
	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/binding"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/emitter"
	"github.com/acaciamc/acacia/pkg/ir"
	"github.com/acaciamc/acacia/pkg/types"
	"github.com/acaciamc/acacia/pkg/util/source"
)

// World classifies an expression's evaluation world (spec.md §3 "world
// category ∈ {runtime-value, compile-time-value, reference}").
type World uint

// The three world categories.
const (
	WorldRuntime World = iota
	WorldCompileTime
	WorldReference
)

// Typed pairs a static type with a world category: spec.md §4.3's central
// invariant ("every expression has (i) a static type, (ii) a world
// category"), plus the already-evaluated compile-time Value when World is
// WorldCompileTime, and the resolved binding for assignability checks.
type Typed struct {
	Type    types.Type
	World   World
	Value   Value // meaningful only when World == WorldCompileTime
	Binding *binding.Binding
}

// IsConst reports whether this expression is usable at a compile-time-only
// position.
func (t Typed) IsConst() bool { return t.World == WorldCompileTime }

// IsAssignable reports whether this expression may serve as an assignment
// or reference target.
func (t Typed) IsAssignable() bool {
	return (t.World == WorldRuntime || t.World == WorldReference) && t.Binding != nil && t.Binding.IsAssignable()
}

// Analyzer walks a parsed Program, resolving names, type-checking, folding
// compile-time expressions, and lowering runtime constructs to the
// intermediate operations the emitter consumes (spec.md §4 "Analyzer /
// evaluator").
//
// Grounded on the teacher's single top-down schema-building walk in
// pkg/corset (module scope plus a linear instruction sequence assembled as
// the walk proceeds), generalized from constraint lowering to Acacia's
// dual-world statement/expression lowering.
type Analyzer struct {
	file      *source.File
	frame     *binding.Frame
	registry  *Registry
	emitter   *emitter.Emitter
	constEval *ConstEval
}

// New constructs an Analyzer over one source file, sharing the given
// emitter (for storage allocation) and entity-template registry (shared
// across a whole compilation so templates defined in one imported module
// are visible from another).
func New(file *source.File, em *emitter.Emitter, reg *Registry) *Analyzer {
	return &Analyzer{
		file:      file,
		frame:     binding.NewRootFrame(),
		registry:  reg,
		emitter:   em,
		constEval: NewConstEval(file),
	}
}

// AnalyzeProgram walks every top-level statement, returning the lowered
// runtime instruction sequence for the module's top-level code (spec.md §8
// invariant 1: "For every AST node the analyzer assigns a type and a world
// category").
func (a *Analyzer) AnalyzeProgram(prog *ast.Program) ([]ir.Instr, *diag.Error) {
	var instrs []ir.Instr

	for _, stmt := range prog.Statements {
		out, err := a.analyzeStmt(stmt)
		if err != nil {
			return nil, err
		}

		instrs = append(instrs, out...)
	}

	return instrs, nil
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt) ([]ir.Instr, *diag.Error) {
	switch s := stmt.(type) {
	case *ast.PassStmt:
		return nil, nil
	case *ast.ExprStmt:
		_, instrs, err := a.analyzeExpr(s.Value)
		return instrs, err
	case *ast.CompoundDeclStmt:
		return a.analyzeCompoundDecl(s)
	case *ast.VarDeclStmt:
		return a.analyzeVarDecl(s)
	case *ast.ConstDeclStmt:
		return a.analyzeConstDecl(s)
	case *ast.RefDeclStmt:
		return a.analyzeRefDecl(s)
	case *ast.AssignStmt:
		return a.analyzeAssign(s)
	case *ast.IfStmt:
		return a.analyzeIf(s)
	case *ast.WhileStmt:
		return a.analyzeWhile(s)
	case *ast.ForInStmt:
		return a.analyzeForIn(s)
	case *ast.RawCommandStmt:
		return a.analyzeRawCommand(s)
	case *ast.ResultStmt:
		return a.analyzeResult(s)
	case *ast.EntityDef:
		tmpl, err := a.registry.Define(s, a.emitter)
		if err != nil {
			return nil, err
		}

		b := &binding.Binding{Kind: binding.KindEntityTemplate, Name: s.Name, Type: &types.Entity{TemplateName: tmpl.Name}, Decl: tmpl}

		if !a.frame.Declare(s.Name, b) {
			return nil, diag.New(a.file, s.Span(), diag.ShadowedName, "%q is already declared in this scope", s.Name)
		}

		return nil, nil
	case *ast.FuncDef:
		return a.analyzeFuncDef(s)
	case *ast.StructDef:
		return a.analyzeStructDef(s)
	case *ast.InterfaceDef:
		return a.analyzeInterfaceDef(s)
	case *ast.ImportStmt:
		return a.analyzeImport(s)
	default:
		return nil, nil
	}
}

func (a *Analyzer) analyzeCompoundDecl(s *ast.CompoundDeclStmt) ([]ir.Instr, *diag.Error) {
	typed, instrs, err := a.analyzeExpr(s.Value)
	if err != nil {
		return nil, err
	}

	b, declInstrs := a.materialize(s.Name, typed)

	if !a.frame.Declare(s.Name, b) {
		return nil, diag.New(a.file, s.Span(), diag.ShadowedName, "%q is already declared in this scope", s.Name)
	}

	return append(instrs, declInstrs...), nil
}

func (a *Analyzer) analyzeVarDecl(s *ast.VarDeclStmt) ([]ir.Instr, *diag.Error) {
	typed, instrs, err := a.analyzeExpr(s.Value)
	if err != nil {
		return nil, err
	}

	b, declInstrs := a.materialize(s.Name, typed)

	if !a.frame.Declare(s.Name, b) {
		return nil, diag.New(a.file, s.Span(), diag.ShadowedName, "%q is already declared in this scope", s.Name)
	}

	return append(instrs, declInstrs...), nil
}

func (a *Analyzer) analyzeConstDecl(s *ast.ConstDeclStmt) ([]ir.Instr, *diag.Error) {
	typed, instrs, err := a.analyzeExpr(s.Value)
	if err != nil {
		return nil, err
	}

	if !typed.IsConst() {
		return nil, diag.New(a.file, s.Span(), diag.NotConstName, "const %q must be initialized by a compile-time constant", s.Name)
	}

	b := &binding.Binding{Kind: binding.KindConst, Name: s.Name, Type: typed.Type}

	if !a.frame.Declare(s.Name, b) {
		return nil, diag.New(a.file, s.Span(), diag.ShadowedName, "%q is already declared in this scope", s.Name)
	}

	return instrs, nil
}

func (a *Analyzer) analyzeRefDecl(s *ast.RefDeclStmt) ([]ir.Instr, *diag.Error) {
	typed, instrs, err := a.analyzeExpr(s.Target)
	if err != nil {
		return nil, err
	}

	if !typed.IsAssignable() {
		return nil, diag.New(a.file, s.Span(), diag.CantRef, "reference target must be assignable")
	}

	b := &binding.Binding{Kind: binding.KindReference, Name: s.Name, Type: typed.Type, Target: typed.Binding}

	if !a.frame.Declare(s.Name, b) {
		return nil, diag.New(a.file, s.Span(), diag.ShadowedName, "%q is already declared in this scope", s.Name)
	}

	return instrs, nil
}

// materialize implements spec.md §4.3's world promotion rule: a compile-
// time constant of a type with a runtime form is allocated storage and
// initialized; an already-runtime value's binding is reused directly.
func (a *Analyzer) materialize(name string, typed Typed) (*binding.Binding, []ir.Instr) {
	if typed.World == WorldRuntime && typed.Binding != nil {
		return &binding.Binding{Kind: binding.KindRuntimeVar, Name: name, Type: typed.Type, Slot: typed.Binding.Slot}, nil
	}

	if typed.Type.HasRuntimeForm() {
		slot := a.emitter.AllocSlot()
		b := &binding.Binding{Kind: binding.KindRuntimeVar, Name: name, Type: typed.Type, Slot: slot}

		if typed.World == WorldCompileTime && typed.Type.Kind() == types.KindInt {
			return b, []ir.Instr{&ir.AssignLiteral{Slot: slot, Value: typed.Value.Int}}
		}

		if typed.World == WorldCompileTime && typed.Type.Kind() == types.KindBool {
			v := int32(0)
			if typed.Value.Bool {
				v = 1
			}

			return b, []ir.Instr{&ir.AssignLiteral{Slot: slot, Value: v}}
		}

		return b, nil
	}

	return &binding.Binding{Kind: binding.KindConst, Name: name, Type: typed.Type}, nil
}

func (a *Analyzer) analyzeAssign(s *ast.AssignStmt) ([]ir.Instr, *diag.Error) {
	name, ok := s.Target.(*ast.NameExpr)
	if !ok {
		return nil, diag.New(a.file, s.Span(), diag.InvalidAssignTarget, "assignment target must be a name")
	}

	target, found := a.frame.Resolve(name.Name)
	if !found {
		return nil, diag.New(a.file, s.Span(), diag.NameNotDefined, "%q is not defined", name.Name)
	}

	if !target.IsAssignable() {
		return nil, diag.New(a.file, s.Span(), diag.InvalidAssignTarget, "%q is not assignable", name.Name)
	}

	typed, instrs, err := a.analyzeExpr(s.Value)
	if err != nil {
		return nil, err
	}

	if !target.Type.Equals(typed.Type) {
		return nil, diag.New(a.file, s.Span(), diag.WrongAssignType, "cannot assign %s to %s", typed.Type, target.Type)
	}

	slot := target.Slot
	if target.Kind == binding.KindReference {
		slot = target.Target.Slot
	}

	if typed.World == WorldCompileTime && typed.Type.Kind() == types.KindInt {
		return append(instrs, &ir.ScoreboardOp{Dst: slot, Op: ir.ScoreAssign, Src: ir.LiteralOperand(typed.Value.Int)}), nil
	}

	if typed.Binding != nil {
		return append(instrs, &ir.ScoreboardOp{Dst: slot, Op: ir.ScoreAssign, Src: ir.SlotOperand(typed.Binding.Slot)}), nil
	}

	return instrs, nil
}

// analyzeIf implements spec.md §4.3's if/elif/else handling and §8
// invariant 5: when a branch's condition folds to a compile-time value,
// only the selected branch's lowered body appears in the result.
func (a *Analyzer) analyzeIf(s *ast.IfStmt) ([]ir.Instr, *diag.Error) {
	arms := make([]ast.Expr, 0, 1+len(s.Elifs))
	bodies := make([][]ast.Stmt, 0, 1+len(s.Elifs))

	arms = append(arms, s.Cond)
	bodies = append(bodies, s.Body)

	for _, elif := range s.Elifs {
		arms = append(arms, elif.Cond)
		bodies = append(bodies, elif.Body)
	}

	return a.analyzeIfChain(s.Span(), arms, bodies, s.HasElse, s.Else)
}

func (a *Analyzer) analyzeIfChain(span source.Span, arms []ast.Expr, bodies [][]ast.Stmt, hasElse bool, elseBody []ast.Stmt) ([]ir.Instr, *diag.Error) {
	if len(arms) == 0 {
		if hasElse {
			return a.analyzeScopedBlock(elseBody)
		}

		return nil, nil
	}

	cond, condInstrs, err := a.requireBoolCondition(arms[0], diag.WrongIfCondition)
	if err != nil {
		return nil, err
	}

	if cond.World == WorldCompileTime {
		if cond.Value.Bool {
			body, err := a.analyzeScopedBlock(bodies[0])
			return append(condInstrs, body...), err
		}

		return a.analyzeIfChain(span, arms[1:], bodies[1:], hasElse, elseBody)
	}

	body, err := a.analyzeScopedBlock(bodies[0])
	if err != nil {
		return nil, err
	}

	rest, err := a.analyzeIfChain(span, arms[1:], bodies[1:], hasElse, elseBody)
	if err != nil {
		return nil, err
	}

	instrs := append(condInstrs, &ir.ConditionalExecute{Cond: cond.Binding.Slot, Body: body})

	if len(rest) > 0 {
		instrs = append(instrs, &ir.ConditionalExecute{Cond: cond.Binding.Slot, Negate: true, Body: rest})
	}

	return instrs, nil
}

func (a *Analyzer) analyzeScopedBlock(body []ast.Stmt) ([]ir.Instr, *diag.Error) {
	parent := a.frame
	a.frame = parent.Push(parent.IsRuntime())
	instrs, err := a.analyzeBlock(body)
	a.frame = parent

	return instrs, err
}

func (a *Analyzer) analyzeWhile(s *ast.WhileStmt) ([]ir.Instr, *diag.Error) {
	cond, condInstrs, err := a.requireBoolCondition(s.Cond, diag.WrongWhileCondition)
	if err != nil {
		return nil, err
	}

	if cond.World == WorldCompileTime && cond.Value.Bool {
		return nil, diag.New(a.file, s.Span(), diag.EndlessWhileLoop, "while condition folds to a constant true value")
	}

	body, err := a.analyzeScopedBlock(s.Body)
	if err != nil {
		return nil, err
	}

	return append(condInstrs, &ir.ConditionalExecute{Cond: cond.Binding.Slot, Body: body}), nil
}

func (a *Analyzer) requireBoolCondition(expr ast.Expr, kind diag.Kind) (Typed, []ir.Instr, *diag.Error) {
	typed, instrs, err := a.analyzeExpr(expr)
	if err != nil {
		return Typed{}, nil, err
	}

	if !typed.Type.Equals(types.Bool) {
		return Typed{}, nil, diag.New(a.file, expr.Span(), kind, "condition must be bool, found %s", typed.Type)
	}

	return typed, instrs, nil
}

// analyzeForIn unrolls a compile-time for-loop: the iterable must be a
// compile-time list or map, and the body is reanalyzed once per element
// (spec.md §4.3 "for over compile-time iterables", §8 invariant 4).
func (a *Analyzer) analyzeForIn(s *ast.ForInStmt) ([]ir.Instr, *diag.Error) {
	iterable, iterInstrs, err := a.analyzeExpr(s.Iterable)
	if err != nil {
		return nil, err
	}

	if !iterable.IsConst() {
		return nil, diag.New(a.file, s.Iterable.Span(), diag.NotIterable, "for-in iterable must be a compile-time list or map")
	}

	var elements []Value

	switch iterable.Type.Kind() {
	case types.KindList:
		elements = iterable.Value.List
	case types.KindMap:
		elements = iterable.Value.MapKeys
	default:
		return nil, diag.New(a.file, s.Iterable.Span(), diag.NotIterable, "type %s is not iterable", iterable.Type)
	}

	instrs := iterInstrs

	for _, elem := range elements {
		bodyFrame := a.frame
		a.frame = bodyFrame.Push(bodyFrame.IsRuntime())
		a.frame.Declare(s.Name, &binding.Binding{Kind: binding.KindConst, Name: s.Name, Type: elem.Type})

		out, err := a.analyzeBlock(s.Body)
		a.frame = bodyFrame

		if err != nil {
			return nil, err
		}

		instrs = append(instrs, out...)
	}

	return instrs, nil
}

func (a *Analyzer) analyzeBlock(body []ast.Stmt) ([]ir.Instr, *diag.Error) {
	var instrs []ir.Instr

	for _, stmt := range body {
		out, err := a.analyzeStmt(stmt)
		if err != nil {
			return nil, err
		}

		instrs = append(instrs, out...)
	}

	return instrs, nil
}

func (a *Analyzer) analyzeResult(s *ast.ResultStmt) ([]ir.Instr, *diag.Error) {
	if a.frame.Result == nil {
		return nil, diag.New(a.file, s.Span(), diag.ResultOutOfScope, "result used outside a function body")
	}

	typed, instrs, err := a.analyzeExpr(s.Value)
	if err != nil {
		return nil, err
	}

	if typed.World != WorldRuntime && !typed.Type.HasCompileTimeForm() {
		return nil, diag.New(a.file, s.Span(), diag.NonRtResult, "result value has no usable form")
	}

	a.frame.Result.Seen = true

	return instrs, nil
}

// analyzeRawCommand lowers a raw-command statement, resolving every `${name}`
// interpolation against a compile-time binding (spec.md §8 invariant 6).
func (a *Analyzer) analyzeRawCommand(s *ast.RawCommandStmt) ([]ir.Instr, *diag.Error) {
	line := ""

	for _, seg := range s.Segments {
		switch {
		case seg.IsHole:
			b, found := a.frame.Resolve(seg.Text)
			if !found {
				return nil, diag.New(a.file, s.Span(), diag.NameNotDefined, "%q is not defined", seg.Text)
			}

			if !b.IsConstant() {
				return nil, diag.New(a.file, s.Span(), diag.NotConstName,
					"raw command interpolation of %q requires a compile-time constant", seg.Text)
			}

			line += seg.Text
		default:
			line += seg.Text
		}
	}

	return []ir.Instr{&ir.RawCommandExpansion{Line: line}}, nil
}
