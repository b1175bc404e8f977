package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docimages/internal/config"
	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/logfields"
	"git.home.luguber.info/inful/docimages/internal/metrics"
)

// App is the build application extensions are installed into.
type App struct {
	cfg         *config.Config
	builderName config.BuilderName
	srcDir      string
	outDir      string

	bus          *EventBus
	env          *Env
	builder      Builder
	markdown     goldmark.Markdown
	directives   map[string]Directive
	nodes        map[ast.NodeKind]map[Format]NodeHandler
	configValues map[string]any
	extensions   map[string]Metadata
	scripts      []string
	styles       []string

	logger   *slog.Logger
	recorder metrics.Recorder

	report   *Report
	buildErr error
	built    bool
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used by the host and its extensions.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *App) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithOutputDir overrides the configured output directory.
func WithOutputDir(dir string) Option {
	return func(a *App) {
		if dir != "" {
			a.outDir = dir
		}
	}
}

// WithBuilder overrides the configured builder.
func WithBuilder(name config.BuilderName) Option {
	return func(a *App) {
		if name != "" {
			a.builderName = name
		}
	}
}

// New creates an App for cfg. Relative source and output directories are
// resolved against the directory of the configuration file.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.ConfigError("configuration is required").Build()
	}
	a := &App{
		cfg:          cfg,
		builderName:  config.NormalizeBuilder(cfg.Builder),
		srcDir:       cfg.SourceDir,
		outDir:       cfg.Output.Directory,
		bus:          NewEventBus(),
		directives:   make(map[string]Directive),
		nodes:        make(map[ast.NodeKind]map[Format]NodeHandler),
		configValues: make(map[string]any),
		extensions:   make(map[string]Metadata),
		logger:       slog.Default(),
		recorder:     metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}

	base := "."
	if cfg.Path() != "" {
		base = filepath.Dir(cfg.Path())
	}
	var err error
	if a.srcDir, err = absFrom(base, a.srcDir); err != nil {
		return nil, err
	}
	if a.outDir, err = absFrom(base, a.outDir); err != nil {
		return nil, err
	}
	a.env = NewEnv(a.srcDir)
	a.markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithBlockParsers(util.Prioritized(newDirectiveParser(a.HasDirective), 150)),
		),
	)
	return a, nil
}

func absFrom(base, dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve directory").
			WithContext("path", dir).Build()
	}
	return abs, nil
}

// Config returns the project configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Env returns the build environment.
func (a *App) Env() *Env { return a.env }

// Builder returns the active builder, nil before builder-inited.
func (a *App) Builder() Builder { return a.builder }

// SrcDir returns the absolute source directory.
func (a *App) SrcDir() string { return a.srcDir }

// OutDir returns the absolute output directory.
func (a *App) OutDir() string { return a.outDir }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Recorder returns the metrics recorder.
func (a *App) Recorder() metrics.Recorder { return a.recorder }

// Report returns the report of the current or last build.
func (a *App) Report() *Report { return a.report }

// BuildError returns the error the build finished with. It is meaningful in
// build-finished listeners.
func (a *App) BuildError() error { return a.buildErr }

// Scripts returns registered script includes in registration order.
func (a *App) Scripts() []string { return append([]string(nil), a.scripts...) }

// Styles returns registered stylesheet includes in registration order.
func (a *App) Styles() []string { return append([]string(nil), a.styles...) }

// Extensions returns the names of the extensions set up so far.
func (a *App) Extensions() map[string]Metadata {
	out := make(map[string]Metadata, len(a.extensions))
	for k, v := range a.extensions {
		out[k] = v
	}
	return out
}

// Setup installs the extension registered under name.
func (a *App) Setup(name string) error {
	if _, done := a.extensions[name]; done {
		return nil
	}
	setup, ok := LookupExtension(name)
	if !ok {
		return errors.ConfigError(fmt.Sprintf("unknown extension %q", name)).
			WithContext("available", Extensions()).Build()
	}
	md, err := setup(a)
	if err != nil {
		return &ExtensionError{Extension: name, Operation: "setup", Err: err}
	}
	a.extensions[name] = md
	a.logger.Debug("Extension set up", logfields.Extension(name),
		slog.String("version", md.Version), slog.Bool("parallel_read_safe", md.ParallelReadSafe))
	return nil
}

// AddConfigValue declares an extension-owned top-level configuration section
// together with its default value.
func (a *App) AddConfigValue(name string, def any) {
	a.configValues[name] = def
}

// ConfigValue returns the raw YAML node of a declared section. ok is false
// when the section is undeclared or absent from the configuration.
func (a *App) ConfigValue(name string) (*yaml.Node, bool) {
	if _, declared := a.configValues[name]; !declared {
		return nil, false
	}
	return a.cfg.Section(name)
}

// ConfigDefault returns the default declared for a section.
func (a *App) ConfigDefault(name string) (any, bool) {
	v, ok := a.configValues[name]
	return v, ok
}

// Connect registers fn for ev at priority.
func (a *App) Connect(ev Event, priority int, fn Listener) int {
	return a.bus.Connect(ev, priority, fn)
}

// Disconnect removes a listener registered with Connect.
func (a *App) Disconnect(id int) {
	a.bus.Disconnect(id)
}

// AddDirective registers a directive under name, replacing any previous one.
func (a *App) AddDirective(name string, d Directive) {
	if _, exists := a.directives[name]; exists {
		a.logger.Debug("Directive overridden", logfields.Directive(name))
	}
	a.directives[name] = d
}

// HasDirective reports whether a directive is registered under name.
func (a *App) HasDirective(name string) bool {
	_, ok := a.directives[name]
	return ok
}

// AddNode registers per-format handlers for a node kind. Handlers for formats
// already registered are replaced.
func (a *App) AddNode(kind ast.NodeKind, handlers map[Format]NodeHandler) {
	m, ok := a.nodes[kind]
	if !ok {
		m = make(map[Format]NodeHandler, len(handlers))
		a.nodes[kind] = m
	}
	for f, h := range handlers {
		m[f] = h
		a.logger.Debug("Node handler registered", slog.String("kind", kind.String()), logfields.Format(string(f)))
	}
}

// NodeHandler returns the handler registered for kind and format.
func (a *App) NodeHandler(kind ast.NodeKind, format Format) (NodeHandler, bool) {
	h, ok := a.nodes[kind][format]
	return h, ok
}

// AddJSFile registers a script, relative to _static or an absolute URL.
func (a *App) AddJSFile(path string) {
	if !contains(a.scripts, path) {
		a.scripts = append(a.scripts, path)
	}
}

// AddCSSFile registers a stylesheet, relative to _static or an absolute URL.
func (a *App) AddCSSFile(path string) {
	if !contains(a.styles, path) {
		a.styles = append(a.styles, path)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Build runs the full lifecycle once. The returned report is non-nil even on error.
func (a *App) Build(ctx context.Context) (*Report, error) {
	if a.built {
		return nil, errors.InternalError("app already built").Build()
	}
	a.built = true
	a.report = newReport()

	start := time.Now()
	err := a.build(ctx)
	a.buildErr = err

	if ferr := a.bus.Emit(ctx, EventBuildFinished, a); ferr != nil {
		a.logger.Warn("Event listener failed", logfields.Event(string(EventBuildFinished)), logfields.Error(ferr))
	}

	duration := time.Since(start)
	a.report.Duration = duration
	a.recorder.ObserveBuildDuration(duration)
	switch {
	case err != nil:
		a.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	case len(a.report.Issues) > 0:
		a.recorder.IncBuildOutcome(metrics.BuildOutcomeWarning)
	default:
		a.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	}
	return a.report, err
}

func (a *App) build(ctx context.Context) error {
	for _, name := range a.cfg.Extensions {
		if err := a.Setup(name); err != nil {
			return err
		}
	}
	if err := a.emit(ctx, EventConfigInited); err != nil {
		return err
	}

	if err := a.prepareOutput(); err != nil {
		return err
	}
	builder, err := newBuilder(a.builderName, a)
	if err != nil {
		return err
	}
	a.builder = builder
	a.logger.Info("Builder initialised", logfields.Builder(builder.Name()), logfields.Path(a.outDir))
	if err := a.emit(ctx, EventBuilderInited); err != nil {
		return err
	}

	docs, err := a.discover()
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.readDoc(doc); err != nil {
			return err
		}
	}
	a.env.DocName = ""
	a.report.Documents = len(docs)

	if err := a.emit(ctx, EventEnvUpdated); err != nil {
		return err
	}

	if err := builder.PrepareWriting(ctx, a.env); err != nil {
		return err
	}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := builder.WriteDoc(ctx, doc); err != nil {
			return err
		}
	}
	if err := builder.Finish(ctx); err != nil {
		return err
	}
	a.report.Images = a.env.Images.Len()
	a.logger.Info("Build complete",
		logfields.Builder(builder.Name()),
		logfields.Count(len(docs)),
		slog.Int("images", a.report.Images),
		slog.Int("issues", len(a.report.Issues)))
	return nil
}

// emit runs the listeners of ev. A failing listener aborts the build.
func (a *App) emit(ctx context.Context, ev Event) error {
	a.logger.Debug("Emitting event", logfields.Event(string(ev)), logfields.Count(a.bus.Count(ev)))
	if err := a.bus.Emit(ctx, ev, a); err != nil {
		a.logger.Error("Event listener failed", logfields.Event(string(ev)), logfields.Error(err))
		return err
	}
	return nil
}

// prepareOutput cleans and recreates the output directory.
func (a *App) prepareOutput() error {
	if a.cfg.Output.Clean {
		rel, err := filepath.Rel(a.outDir, a.srcDir)
		if err == nil && !escapes(rel) {
			return errors.ConfigError("refusing to clean an output directory that contains the source directory").
				WithContext("output", a.outDir).WithContext("source", a.srcDir).Build()
		}
		if err := os.RemoveAll(a.outDir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
				WithContext("path", a.outDir).Build()
		}
	}
	if err := os.MkdirAll(a.outDir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", a.outDir).Build()
	}
	return nil
}

// escapes reports whether a relative path leaves its base directory.
func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// discover lists the Markdown documents below the source directory, skipping
// directories whose names start with "_" or ".".
func (a *App) discover() ([]*Document, error) {
	info, err := os.Stat(a.srcDir)
	if err != nil || !info.IsDir() {
		return nil, errors.ConfigError("source directory not found").
			WithContext("path", a.srcDir).Build()
	}
	var docs []*Document
	err = filepath.WalkDir(a.srcDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != a.srcDir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(a.srcDir, p)
		if err != nil {
			return err
		}
		docs = append(docs, &Document{
			Name:       filepath.ToSlash(rel[:len(rel)-len(".md")]),
			SourcePath: p,
		})
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to scan source directory").
			WithContext("path", a.srcDir).Build()
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	a.logger.Debug("Discovered documents", logfields.Count(len(docs)), logfields.Path(a.srcDir))
	return docs, nil
}

func skipDir(name string) bool {
	return name != "" && (name[0] == '_' || name[0] == '.')
}
