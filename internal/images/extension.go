package images

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/host"
	"git.home.luguber.info/inful/docimages/internal/logfields"
	"git.home.luguber.info/inful/docimages/internal/version"
)

// ExtensionName is the name the extension is registered under.
const ExtensionName = "images"

func init() {
	host.RegisterExtension(ExtensionName, NewSetup())
}

// Option customizes the extension.
type Option func(*extension)

// WithBackendFactory uses f instead of looking the configured backend up by name.
func WithBackendFactory(f Factory) Option {
	return func(e *extension) { e.factory = f }
}

// WithRegistry looks backends up in r instead of the default registry.
func WithRegistry(r *Registry) Option {
	return func(e *extension) { e.registry = r }
}

// WithHTTPClient sets the client used to download remote images.
func WithHTTPClient(c *http.Client) Option {
	return func(e *extension) { e.client = c }
}

type extension struct {
	factory  Factory
	registry *Registry
	client   *http.Client

	cfg     Config
	backend Backend
}

// NewSetup returns a setup function installing the extension with opts.
func NewSetup(opts ...Option) host.SetupFunc {
	return func(app *host.App) (host.Metadata, error) {
		e := &extension{registry: defaultRegistry, cfg: DefaultConfig()}
		for _, opt := range opts {
			opt(e)
		}
		app.AddConfigValue(ConfigSection, DefaultConfig())
		app.Connect(host.EventConfigInited, host.DefaultPriority, e.updateConfig)
		app.Connect(host.EventBuilderInited, host.DefaultPriority, e.configureBackend)
		app.Connect(host.EventEnvUpdated, host.DefaultPriority, e.downloadImages)
		app.Connect(host.EventEnvUpdated, host.DefaultPriority, e.installStaticFiles)
		return host.Metadata{Version: version.Version, ParallelReadSafe: true}, nil
	}
}

// Setup installs the extension with default options.
func Setup(app *host.App) (host.Metadata, error) {
	return NewSetup()(app)
}

func (e *extension) config() Config {
	return e.cfg
}

func (e *extension) updateConfig(_ context.Context, app *host.App) error {
	node, _ := app.ConfigValue(ConfigSection)
	cfg, err := decodeConfig(node)
	if err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

func (e *extension) configureBackend(_ context.Context, app *host.App) error {
	cacheDir := filepath.Join(app.SrcDir(), filepath.FromSlash(e.cfg.CachePath))
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create image cache directory").
			WithContext("path", cacheDir).Build()
	}

	backend, pkg, err := e.newBackend(app)
	if err != nil {
		return err
	}
	e.backend = backend
	app.Logger().Info("Initiated images backend", logfields.Backend(pkg+":"+backend.Name()))

	app.AddNode(KindImage, nodeHandlers(backend))
	directive := &thumbnailDirective{cfg: e.config}
	app.AddDirective("thumbnail", directive)
	if e.cfg.OverrideImageDirective {
		app.AddDirective("image", directive)
	}
	RemoteImagesOf(app.Env())
	return nil
}

func (e *extension) newBackend(app *host.App) (Backend, string, error) {
	factory, pkg := e.factory, "custom"
	if factory == nil {
		info, ok := e.registry.Get(e.cfg.Backend)
		if !ok {
			return nil, "", errors.ConfigError("Cannot find images backend with name `"+e.cfg.Backend+"`").
				WithContext("available", e.registry.Names()).Build()
		}
		factory, pkg = info.Factory, info.Package
	}
	backend, err := factory(app, e.cfg)
	if err == nil && backend == nil {
		err = errors.InternalError("backend factory returned nil").Build()
	}
	if err != nil {
		app.Logger().Info("Cannot instantiate images backend; select a correct backend",
			logfields.Backend(e.cfg.Backend),
			logfields.Error(err),
			"available", strings.Join(e.registry.Names(), ", "))
		return nil, "", errors.BackendError("cannot instantiate images backend").
			WithCause(err).WithContext("backend", e.cfg.Backend).Build()
	}
	return backend, pkg, nil
}

func (e *extension) downloadImages(ctx context.Context, app *host.App) error {
	client := e.client
	if client == nil {
		client = NewHTTPClient(e.cfg.Requests)
	}
	d := &Downloader{
		Client:   client,
		Requests: e.cfg.Requests,
		Logger:   app.Logger(),
		Recorder: app.Recorder(),
	}
	return d.Download(ctx, app.SrcDir(), RemoteImagesOf(app.Env()))
}

func (e *extension) installStaticFiles(_ context.Context, app *host.App) error {
	if e.backend == nil {
		return nil
	}
	return InstallBackendStaticFiles(app, e.backend)
}
