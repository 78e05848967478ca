package analyzer

import (
	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/util/source"
)

// portAllowed implements the flavor x port compatibility matrix of spec.md
// §4.4: runtime and inline flavors accept all three ports; compile-time
// functions accept only const (by-value is read as "compile-time constant
// only" for that flavor, by-reference is not offered at all).
func portAllowed(flavor ast.ParamFlavor, port ast.ParamPort) bool {
	switch flavor {
	case ast.FlavorCompileTime:
		return port == ast.PortConst || port == ast.PortValue
	default:
		return true
	}
}

// ValidateFuncDef checks the parameter-port/flavor matrix, default-value
// ordering and constness, and the inline-function multiple-results rule of
// spec.md §4.4.  isConstExpr classifies a default-value expression; it is
// supplied by the expression analyzer rather than computed here to avoid a
// dependency cycle between this file and the expression walker.  Actual
// arguments are checked separately by ValidateCallArg.
func ValidateFuncDef(file *source.File, def *ast.FuncDef, isConstExpr func(ast.Expr) bool) *diag.Error {
	seenDefault := false

	for _, p := range def.Params {
		if !portAllowed(def.Flavor, p.Port) {
			return diag.New(file, def.Span(), diag.PortNotPermitted,
				"parameter %q: port %s is not permitted on a %s function", p.Name, p.Port, def.Flavor)
		}

		if p.Default != nil {
			seenDefault = true

			if p.Port != ast.PortRef && !isConstExpr(p.Default) {
				return diag.New(file, def.Span(), diag.NonRefArgDefaultNotConst,
					"parameter %q: non-reference default must be a compile-time constant", p.Name)
			}

			if def.Flavor == ast.FlavorCompileTime && !isConstExpr(p.Default) {
				return diag.New(file, def.Span(), diag.ArgDefaultNotConst,
					"parameter %q: compile-time function parameter default must be constant", p.Name)
			}
		} else if seenDefault {
			return diag.New(file, def.Span(), diag.UnexpectedToken,
				"parameter %q: non-default parameter follows a defaulted parameter", p.Name)
		}
	}

	if def.Flavor == ast.FlavorInline && resultIsRefOrConst(def) {
		if countReachableResults(def.Body) > 1 {
			return diag.New(file, def.Span(), diag.MultipleResults,
				"inline function %q with a ref/const result may have at most one result statement", def.Name)
		}
	}

	return nil
}

// ValidateCallArg checks one actual argument against its parameter's port
// (spec.md §4.4 "reference argument with non-assignable actual ->
// cantrefarg; const argument with non-constant actual -> argnotconst").
func ValidateCallArg(file *source.File, span source.Span, port ast.ParamPort, isAssignable, isConst bool) *diag.Error {
	switch port {
	case ast.PortRef:
		if !isAssignable {
			return diag.New(file, span, diag.CantRefArg, "argument for a by-reference parameter must be assignable")
		}
	case ast.PortConst:
		if !isConst {
			return diag.New(file, span, diag.ArgNotConst, "argument for a const parameter must be a compile-time constant")
		}
	}

	return nil
}

// resultIsRefOrConst reports whether any parameter of def uses the ref or
// const port. A FuncDef's result carries no port, so the inline
// multiple-results rule is keyed on the parameters' ports, not the result's.
func resultIsRefOrConst(def *ast.FuncDef) bool {
	for _, p := range def.Params {
		if p.Port == ast.PortRef || p.Port == ast.PortConst {
			return true
		}
	}

	return false
}

// countReachableResults counts result statements on syntactically
// reachable paths, walking into if/elif/else and while/for bodies but not
// attempting full reachability analysis beyond straight-line containment.
func countReachableResults(body []ast.Stmt) int {
	count := 0

	for _, s := range body {
		switch v := s.(type) {
		case *ast.ResultStmt:
			count++
		case *ast.IfStmt:
			count += countReachableResults(v.Body)
			for _, e := range v.Elifs {
				count += countReachableResults(e.Body)
			}
			count += countReachableResults(v.Else)
		case *ast.WhileStmt:
			count += countReachableResults(v.Body)
		case *ast.ForInStmt:
			count += countReachableResults(v.Body)
		}
	}

	return count
}
