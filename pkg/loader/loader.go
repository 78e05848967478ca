// Package loader implements Acacia's module loader: resolution of `import`
// targets to either another source unit or a host builtin module, with
// cycle detection and a cache keyed by canonical path (spec.md §4.7 "Module
// loader", §5 "Module loading is re-entrant").
//
// Grounded on the teacher's recursive module-scope tree (pkg/corset/scope.go
// ModuleScope.submodmap / Enter) for the cache-by-path shape, and on
// pkg/util/source.ReadFiles for the scoped, eagerly-released file-handle
// discipline required by spec.md §5.
package loader

import (
	"fmt"
	"path/filepath"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/util"
	"github.com/acaciamc/acacia/pkg/util/source"
)

// state is one of {not-started, in-progress, done} for a given canonical
// path (spec.md §5: "a given source path is at most one of {not-started,
// in-progress, done}").
type state uint

const (
	notStarted state = iota
	inProgress
	done
)

// Unit is one loaded module: either a parsed source unit or a host
// builtin. Exactly one of Program / Builtin is non-nil.
type Unit struct {
	Path    string
	File    *source.File
	Program *ast.Program
	Builtin Builtin
}

// Builtin is a host-registered module that Acacia source may `import`
// without it existing as a `.aca` file on disk (spec.md §4.7: "a builtin
// module registered by the host"). The MIDI music module named in spec.md
// §1's "out of scope" list is a natural Builtin implementor, registered by
// whatever embeds this compiler.
type Builtin interface {
	// Name is the dotted import path this builtin answers to.
	Name() string
	// Members lists the names this builtin module exports, used by the
	// analyzer to resolve `modname.member` without re-entering the
	// pipeline.
	Members() []string
}

// ParseFunc parses one already-read source file into a Program, or returns
// a diagnostic. The loader is deliberately ignorant of lexing/parsing
// details; it is supplied by the compiler package to avoid an import cycle
// between loader and the parser.
type ParseFunc func(file *source.File) (*ast.Program, *diag.Error)

// Loader resolves import paths to Units, re-entering Parse for source units
// it has not yet seen and detecting cycles along the way.
type Loader struct {
	parse    ParseFunc
	builtins map[string]Builtin
	states   map[string]state
	cache    map[string]*Unit
	baseDir  string
	// maps joins one source.Map[ast.Stmt] per loaded unit (main file plus
	// every transitively imported module) into a single set, so a
	// diagnostic raised against a top-level statement pulled from any file
	// in the module graph can be rendered without its caller tracking which
	// file it came from (source.Maps doc: "any diagnostic, regardless of
	// which file it originated in, can be rendered uniformly").
	maps *source.Maps[ast.Stmt]
}

// New constructs a Loader rooted at baseDir (the directory containing the
// entry source file), resolving relative import paths against it.
func New(baseDir string, parse ParseFunc) *Loader {
	return &Loader{
		parse:    parse,
		builtins: make(map[string]Builtin),
		states:   make(map[string]state),
		cache:    make(map[string]*Unit),
		baseDir:  baseDir,
		maps:     source.NewSourceMaps[ast.Stmt](),
	}
}

// Maps returns the combined cross-file statement-to-span mapping accumulated
// from every unit loaded so far.
func (l *Loader) Maps() *source.Maps[ast.Stmt] {
	return l.maps
}

// RegisterBuiltin makes a host module available for import under its own
// Name().
func (l *Loader) RegisterBuiltin(b Builtin) {
	l.builtins[b.Name()] = b
}

// canonicalPath resolves a dotted import path (spec.md §4.7 "import
// dotted.path") to an absolute filesystem path for a `.aca` source file.
func (l *Loader) canonicalPath(dottedPath string) (string, error) {
	rel := util.ParseDottedPath(dottedPath).FsPath(".aca")
	return filepath.Abs(filepath.Join(l.baseDir, filepath.FromSlash(rel)))
}

// Load resolves dottedPath to a Unit, entering the parser for a not-yet-
// seen source unit, returning the cached Unit for one already loaded, and
// failing with *circularparse if dottedPath is currently in-progress
// (spec.md §5).
func (l *Loader) Load(dottedPath string) (*Unit, *diag.Error) {
	if b, ok := l.builtins[dottedPath]; ok {
		return &Unit{Path: dottedPath, Builtin: b}, nil
	}

	abs, err := l.canonicalPath(dottedPath)
	if err != nil {
		return nil, diag.New(emptyFile(dottedPath), source.NewSpan(0, 0), diag.IOError, "%s", err.Error())
	}

	switch l.states[abs] {
	case inProgress:
		return nil, diag.New(emptyFile(dottedPath), source.NewSpan(0, 0), diag.CircularParse,
			"module %q is already being loaded (circular import)", dottedPath)
	case done:
		return l.cache[abs], nil
	}

	l.states[abs] = inProgress

	files, ioErr := source.ReadFiles(abs)
	if ioErr != nil {
		l.states[abs] = notStarted
		return nil, diag.New(emptyFile(dottedPath), source.NewSpan(0, 0), diag.ModuleNotFound,
			"cannot find module %q: %s", dottedPath, ioErr.Error())
	}

	file := &files[0]

	program, perr := l.parse(file)
	if perr != nil {
		l.states[abs] = notStarted
		return nil, perr
	}

	unit := &Unit{Path: dottedPath, File: file, Program: program}
	l.cache[abs] = unit
	l.states[abs] = done
	l.joinUnitMap(unit)

	return unit, nil
}

// JoinEntry folds the entry source file's own top-level statements into the
// loader's combined cross-file map. The entry file is parsed directly by the
// compiler rather than through Load, so it would otherwise be the one unit
// missing from the combined map.
func (l *Loader) JoinEntry(file *source.File, program *ast.Program) {
	l.joinUnitMap(&Unit{Path: "<entry>", File: file, Program: program})
}

// joinUnitMap records every top-level statement of a freshly parsed unit
// against its originating span and folds the result into the loader's
// combined cross-file map.
func (l *Loader) joinUnitMap(unit *Unit) {
	if unit.Program == nil {
		return
	}

	m := source.NewSourceMap[ast.Stmt](*unit.File)
	for _, stmt := range unit.Program.Statements {
		m.Put(stmt, stmt.Span())
	}

	l.maps.Join(m)
}

// emptyFile constructs a zero-length placeholder source.File for
// diagnostics that occur before any file content has been read (e.g.
// module-not-found, circular-parse), so they can still be rendered through
// the ordinary diag.Error path.
func emptyFile(name string) *source.File {
	return source.NewSourceFile(fmt.Sprintf("<import %s>", name), nil)
}
