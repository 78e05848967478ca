// Package binding implements Acacia's lexical scope stack and the binding
// kinds a name may resolve to (spec.md §3 "Binding kinds", "Scope").
//
// Grounded on the teacher's pkg/corset.ModuleScope (parent-link chain,
// BindingId-keyed lookup, Bind/innerBind traversal), generalized from
// module-path qualified column/function resolution to Acacia's flat,
// per-frame lexical names.
package binding

import (
	"github.com/acaciamc/acacia/pkg/types"
)

// Kind discriminates the binding kinds of spec.md §3.
type Kind uint

// The binding kinds a name may resolve to.
const (
	KindRuntimeVar Kind = iota
	KindConst
	KindReference
	KindFunction
	KindEntityTemplate
	KindStructTemplate
	KindModule
)

// Binding is what a name resolves to within a Scope.
type Binding struct {
	Kind Kind
	Name string
	Type types.Type
	// Slot is the allocated storage name for a runtime variable (scoreboard
	// player name) or the aliased target's slot for a reference; empty for
	// the remaining kinds.
	Slot string
	// Target is set only for KindReference: the binding this one aliases.
	Target *Binding
	// Decl is an opaque back-pointer to the declaring AST/registry node
	// (*ast.FuncDef, *registry.Entity, *registry.Struct, *Scope for
	// modules); callers type-assert it against what they stored.
	Decl any
}

// IsAssignable reports whether this binding may appear as an assignment
// target: runtime variables and references are; constants, functions, and
// templates are not (spec.md §4.3 "assignment").
func (b *Binding) IsAssignable() bool {
	return b.Kind == KindRuntimeVar || b.Kind == KindReference
}

// IsConstant reports whether this binding's value is known during analysis
// (spec.md §4.3 "world promotion rules").
func (b *Binding) IsConstant() bool {
	return b.Kind == KindConst
}

// Frame is one level of the lexical scope stack: a name-to-binding map plus
// the handful of per-function slots spec.md §3 calls out explicitly (self,
// result, new-capture), and a flag distinguishing a runtime-capable frame
// from a purely compile-time one (spec.md §4.3: "the analyzer must mark
// every scope with its world").
type Frame struct {
	parent  *Frame
	names   map[string]*Binding
	runtime bool
	// Self is the binding for `self` inside an entity method body, nil
	// elsewhere.
	Self *Binding
	// Result is the function's result slot, set only inside a function or
	// method body (spec.md §4.3 "result and new": "result outside a
	// function body is resultoutofscope").
	Result *ResultSlot
	// InNewMethod is true exactly inside the body of a `new` method, where
	// `new(...)` expressions are legal (spec.md §4.3: "new(...) is only
	// valid inside a new method").
	InNewMethod bool
	// NewMethodOwner is the entity template name whose `new` method body is
	// currently being analyzed, so a nested new(...) expression knows which
	// template's entity-type/dispatch tag to spawn (spec.md §4.5 step 5).
	NewMethodOwner string
}

// ResultSlot records a function's declared result type and whether a
// result statement has been analyzed in its body. The inline-function
// *multipleresults* check of spec.md §4.4 does not use it; that check
// counts result statements in the analyzer's ValidateFuncDef.
type ResultSlot struct {
	Type types.Type
	// Seen is set once a result statement has been analyzed in the
	// function body.
	Seen bool
}

// NewRootFrame constructs the outermost module-level frame: runtime-capable
// by default, since top-level statements may contain runtime code.
func NewRootFrame() *Frame {
	return &Frame{nil, make(map[string]*Binding), true, nil, nil, false, ""}
}

// Push opens a new nested frame inheriting runtime from the parent unless
// overridden, e.g. by a compile-time function body.
func (f *Frame) Push(runtime bool) *Frame {
	return &Frame{f, make(map[string]*Binding), runtime, f.Self, f.Result, f.InNewMethod, f.NewMethodOwner}
}

// IsRuntime reports whether runtime-valued code is permitted in this frame.
func (f *Frame) IsRuntime() bool {
	return f.runtime
}

// Declare binds name to b in this frame.  Returns false if name is already
// bound in this exact frame (spec.md §4.3 "redeclaration in the same scope
// is shadowedname"); shadowing an outer frame's binding is permitted.
func (f *Frame) Declare(name string, b *Binding) bool {
	if _, exists := f.names[name]; exists {
		return false
	}

	f.names[name] = b

	return true
}

// Resolve looks up name starting in this frame and walking outward through
// parent links, stopping at the first match (spec.md §3 "ordered stack of
// frames").
func (f *Frame) Resolve(name string) (*Binding, bool) {
	for frame := f; frame != nil; frame = frame.parent {
		if b, ok := frame.names[name]; ok {
			return b, true
		}
	}

	return nil, false
}

// CrossesWorldBoundary reports whether resolving name from this frame would
// require capturing a runtime-frame binding from within a compile-time
// frame, which spec.md §9 disallows ("reject captures that cross from
// runtime into compile-time").
func (f *Frame) CrossesWorldBoundary(name string) bool {
	if f.runtime {
		return false
	}

	for frame := f; frame != nil; frame = frame.parent {
		if b, ok := frame.names[name]; ok {
			return b.Kind == KindRuntimeVar && frame.runtime
		}
	}

	return false
}
