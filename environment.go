package weave

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/weavetpl/weave/lexer"
	"github.com/weavetpl/weave/parser"
	"github.com/weavetpl/weave/registry"
	"github.com/weavetpl/weave/value"
)

// AutoEscape determines the auto-escaping strategy applied to rendered
// expression output.
type AutoEscape int

const (
	AutoEscapeNone AutoEscape = iota
	AutoEscapeHTML
)

// Loader resolves a template name to its source text, for templates not
// already registered with AddTemplate.
type Loader func(name string) (string, error)

// AutoEscapeFunc decides the auto-escaping strategy for a template name.
type AutoEscapeFunc func(name string) AutoEscape

// envSnapshot is the copy-on-write unit: every Environment mutation that
// touches the function registry or the compiled-template cache builds a
// new snapshot and atomically publishes it, so a render in flight keeps
// reading a consistent view even if the Environment is reconfigured
// concurrently (§4.6 — replacing the teacher's single RWMutex-guarded
// map, since both the registry and the template cache need to move
// together: a template compiled against one registry snapshot must not
// later be looked up by a renderer that expects a different one).
type envSnapshot struct {
	registry  *registry.Registry
	templates map[string]*compiledTemplate
}

type compiledTemplate struct {
	name   string
	source string
	ast    *parser.Template
}

// Environment owns the template cache, function registry, and rendering
// configuration shared by every Template it compiles.
type Environment struct {
	snap   atomic.Pointer[envSnapshot]
	snapMu sync.Mutex // serializes writers across the copy-modify-swap

	globals   map[string]value.Value
	globalsMu sync.RWMutex

	loader         Loader
	autoEscapeFunc AutoEscapeFunc
	syntaxConfig   lexer.SyntaxConfig
	wsConfig       lexer.WhitespaceConfig
	graceful       bool

	cache *CallbackCache

	instrumentationCallback InstrumentationCallback

	watcher   *fsnotify.Watcher
	watcherMu sync.Mutex
}

// NewEnvironment creates an environment preloaded with the inja-compatible
// builtin operators and the domain-stack text/color/markup filters.
func NewEnvironment() *Environment {
	env := newBareEnvironment()
	reg := registry.New()
	registerBuiltins(reg)
	registerDomainFilters(reg)
	env.snap.Store(&envSnapshot{registry: reg, templates: make(map[string]*compiledTemplate)})
	return env
}

// EmptyEnvironment creates an environment with no builtins registered,
// for callers that want to assemble their own function surface.
func EmptyEnvironment() *Environment {
	env := newBareEnvironment()
	env.snap.Store(&envSnapshot{registry: registry.New(), templates: make(map[string]*compiledTemplate)})
	return env
}

func newBareEnvironment() *Environment {
	return &Environment{
		globals: make(map[string]value.Value),
		autoEscapeFunc: func(name string) AutoEscape {
			switch filepath.Ext(name) {
			case ".html", ".htm", ".xml":
				return AutoEscapeHTML
			}
			return AutoEscapeNone
		},
		syntaxConfig: lexer.DefaultSyntax(),
		wsConfig:     lexer.DefaultWhitespace(),
		cache:        NewCallbackCache(DefaultCallbackCacheConfig()),
	}
}

func (env *Environment) parserConfig() parser.Config {
	return parser.Config{
		Syntax:     env.syntaxConfig,
		Whitespace: env.wsConfig,
		Registry:   env.snap.Load().registry,
		Graceful:   env.graceful,
		Load:       env.loadParserTemplate,
	}
}

// loadParserTemplate satisfies parser.Loader for `extends`/`include`
// resolution at parse time: already-compiled templates are served from
// the snapshot, anything else goes through the source Loader and is
// compiled (and cached) on demand.
func (env *Environment) loadParserTemplate(name string) (*parser.Template, error) {
	if ct, ok := env.snap.Load().templates[name]; ok {
		return ct.ast, nil
	}
	ct, err := env.loadAndCompile(name)
	if err != nil {
		return nil, err
	}
	return ct.ast, nil
}

func (env *Environment) loadAndCompile(name string) (*compiledTemplate, error) {
	if env.loader == nil {
		return nil, NewError(ErrTemplateNotFound, name)
	}
	source, err := env.loader(name)
	if err != nil {
		return nil, NewError(ErrTemplateNotFound, name)
	}
	return env.compile(name, source)
}

func (env *Environment) compile(name, source string) (*compiledTemplate, error) {
	ast, err := parser.Parse(name, source, env.parserConfig())
	if err != nil {
		return nil, err
	}
	ct := &compiledTemplate{name: name, source: source, ast: ast}
	env.storeTemplate(name, ct)
	return ct, nil
}

func (env *Environment) storeTemplate(name string, ct *compiledTemplate) {
	env.snapMu.Lock()
	defer env.snapMu.Unlock()
	old := env.snap.Load()
	templates := make(map[string]*compiledTemplate, len(old.templates)+1)
	for k, v := range old.templates {
		templates[k] = v
	}
	templates[name] = ct
	env.snap.Store(&envSnapshot{registry: old.registry, templates: templates})
}

func (env *Environment) updateRegistry(fn func(*registry.Registry)) {
	env.snapMu.Lock()
	defer env.snapMu.Unlock()
	old := env.snap.Load()
	reg := old.registry.Clone()
	fn(reg)
	env.snap.Store(&envSnapshot{registry: reg, templates: old.templates})
}

func (env *Environment) getCompiled(name string) (*compiledTemplate, error) {
	if ct, ok := env.snap.Load().templates[name]; ok {
		return ct, nil
	}
	return env.loadAndCompile(name)
}

func (env *Environment) registryNames() []string {
	return env.snap.Load().registry.Names()
}

func (env *Environment) snapshotGlobals() map[string]value.Value {
	env.globalsMu.RLock()
	defer env.globalsMu.RUnlock()
	out := make(map[string]value.Value, len(env.globals))
	for k, v := range env.globals {
		out[k] = v
	}
	return out
}

// AddTemplate registers source under name, compiling it immediately so
// parse errors surface at registration time rather than first render.
func (env *Environment) AddTemplate(name, source string) error {
	_, err := env.compile(name, source)
	return err
}

// AddTemplateDir registers every file under dir whose name, relative to
// dir, becomes its template name — mirroring the original engine's
// file-based include_callback search path (§4, supplemented feature).
func (env *Environment) AddTemplateDir(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return NewError(ErrFileIO, err.Error())
		}
		return env.AddTemplate(filepath.ToSlash(rel), string(source))
	})
}

// WatchDir watches dir for changes and recompiles the affected template
// whenever a file under it is written, so long-running hosts (a preview
// server, the CLI's watch command) see edits without a restart.
func (env *Environment) WatchDir(dir string) error {
	env.watcherMu.Lock()
	defer env.watcherMu.Unlock()
	if env.watcher != nil {
		return fmt.Errorf("already watching")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return NewError(ErrFileIO, err.Error())
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return NewError(ErrFileIO, err.Error())
	}
	env.watcher = w
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				rel, err := filepath.Rel(dir, ev.Name)
				if err != nil {
					continue
				}
				source, err := os.ReadFile(ev.Name)
				if err != nil {
					continue
				}
				_ = env.AddTemplate(filepath.ToSlash(rel), string(source))
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

// StopWatching closes the WatchDir watcher, if one is running.
func (env *Environment) StopWatching() error {
	env.watcherMu.Lock()
	defer env.watcherMu.Unlock()
	if env.watcher == nil {
		return nil
	}
	err := env.watcher.Close()
	env.watcher = nil
	return err
}

// GetTemplate retrieves a previously registered or loader-resolved template.
func (env *Environment) GetTemplate(name string) (*Template, error) {
	ct, err := env.getCompiled(name)
	if err != nil {
		return nil, err
	}
	return &Template{env: env, compiled: ct}, nil
}

// TemplateFromString parses source without registering it under a name.
func (env *Environment) TemplateFromString(source string) (*Template, error) {
	return env.TemplateFromNamedString("<string>", source)
}

// TemplateFromNamedString parses source under name without caching it.
func (env *Environment) TemplateFromNamedString(name, source string) (*Template, error) {
	ast, err := parser.Parse(name, source, env.parserConfig())
	if err != nil {
		return nil, err
	}
	return &Template{env: env, compiled: &compiledTemplate{name: name, source: source, ast: ast}}, nil
}

// SetLoader sets the template source loader.
func (env *Environment) SetLoader(loader Loader) { env.loader = loader }

// AddFunction registers a host callback under name/arity (-1 for
// variadic). It is usable both as a call `name(...)` and, for arity>=1,
// as a filter `x | name(...)`.
func (env *Environment) AddFunction(name string, arity int, fn registry.Callback) {
	env.updateRegistry(func(r *registry.Registry) {
		r.Register(name, arity, registry.Entry{Op: registry.OpCallback, Call: fn})
	})
}

// AddFunctionWithInplace registers fn like AddFunction, plus an in-place
// fast path the renderer tries first for `set x = name(x, ...)`
// self-assignment (§4.5/§4.6).
func (env *Environment) AddFunctionWithInplace(name string, arity int, fn registry.Callback, inplace registry.InplaceCallback) {
	env.updateRegistry(func(r *registry.Registry) {
		r.Register(name, arity, registry.Entry{Op: registry.OpCallback, Call: fn, Inplace: inplace})
	})
}

// AddGlobal registers a global variable visible from every template.
func (env *Environment) AddGlobal(name string, v value.Value) {
	env.globalsMu.Lock()
	defer env.globalsMu.Unlock()
	env.globals[name] = v
}

// SetAutoEscapeFunc overrides the auto-escape policy.
func (env *Environment) SetAutoEscapeFunc(f AutoEscapeFunc) { env.autoEscapeFunc = f }

// SetSyntax overrides the lexer's tag delimiters.
func (env *Environment) SetSyntax(cfg lexer.SyntaxConfig) { env.syntaxConfig = cfg }

// SetWhitespace overrides the lexer's whitespace-control defaults.
func (env *Environment) SetWhitespace(cfg lexer.WhitespaceConfig) { env.wsConfig = cfg }

// SetGraceful controls whether render/parse errors are collected into
// RenderResult.Errors instead of aborting the render.
func (env *Environment) SetGraceful(graceful bool) { env.graceful = graceful }

// Template is a compiled template bound to the Environment that produced
// it, carrying whatever registry/template-cache snapshot was current at
// compile time.
type Template struct {
	env      *Environment
	compiled *compiledTemplate
}

// Name returns the template's registered (or given) name.
func (t *Template) Name() string { return t.compiled.name }

// Source returns the template's original source text.
func (t *Template) Source() string { return t.compiled.source }

// RenderResult is the outcome of a render: the produced output, plus any
// recoverable errors collected when the Environment is in graceful mode.
type RenderResult struct {
	Output string
	Errors []*Error
}

// Render renders the template against an arbitrary Go value, converted
// via value.FromAny.
func (t *Template) Render(ctx any) (string, error) {
	res, err := t.renderResult(value.FromAny(ctx))
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// RenderValue renders the template against an already-built Value.
func (t *Template) RenderValue(ctx value.Value) (string, error) {
	res, err := t.renderResult(ctx)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// RenderTo writes the finished render to w and returns the full RenderResult,
// including any errors accumulated in graceful mode (§4, supplemented
// feature mirroring the original engine's render_to).
func (t *Template) RenderTo(w interface{ Write([]byte) (int, error) }, ctx any) (*RenderResult, error) {
	res, err := t.renderResult(value.FromAny(ctx))
	if err != nil {
		return res, err
	}
	if _, werr := w.Write([]byte(res.Output)); werr != nil {
		return res, NewError(ErrFileIO, werr.Error())
	}
	return res, nil
}

func (t *Template) renderResult(ctx value.Value) (*RenderResult, error) {
	autoEscape := t.env.autoEscapeFunc(t.compiled.name) == AutoEscapeHTML
	state := newState(t.env, t.compiled, ctx, autoEscape)
	out, err := state.Render()
	res := &RenderResult{Output: out, Errors: state.errs}
	if err != nil {
		return res, err
	}
	return res, nil
}

// EscapeHTML escapes the five characters that change HTML/XML meaning:
// < > & " '. Forward slash is deliberately left untouched (REDESIGN
// FLAGS: the six-character escape set some engines use to additionally
// defend against a broken "</script>" context is redundant once the
// other five are escaped, and escaping it unconditionally corrupts
// ordinary URLs and paths rendered in text).
func EscapeHTML(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			b = append(b, "&lt;"...)
		case '>':
			b = append(b, "&gt;"...)
		case '&':
			b = append(b, "&amp;"...)
		case '"':
			b = append(b, "&quot;"...)
		case '\'':
			b = append(b, "&#x27;"...)
		default:
			b = append(b, s[i])
		}
	}
	return string(b)
}

func toWeaveError(err error, name string) *Error {
	if werr, ok := err.(*Error); ok {
		return werr
	}
	return NewError(ErrInvalidOperation, err.Error()).WithName(name)
}
