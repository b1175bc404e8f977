package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docimages/internal/config"
	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/host"
	"git.home.luguber.info/inful/docimages/internal/logfields"
	"git.home.luguber.info/inful/docimages/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output.directory)"`
	Builder     string `short:"b" help:"Builder to use (html|text)"`
	Strict      bool   `help:"Fail the build when a directive reports an error"`
	Watch       bool   `short:"w" help:"Rebuild whenever files in the source directory change"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in textfile collector format after each build"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if b.Builder != "" {
		cfg.Builder = b.Builder
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	logger := cfg.Logging.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)

	run, err := b.newRun(cfg, logger, g.out())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := run.once(ctx)
	if !b.Watch {
		return err
	}
	if app == nil {
		// the configuration never produced an app, so there is nothing to watch
		return err
	}
	return host.Watch(ctx, app.SrcDir(), host.DefaultDebounce, logger, func(ctx context.Context) error {
		_, err := run.once(ctx)
		return err
	})
}

func (b *BuildCmd) newRun(cfg *config.Config, logger *slog.Logger, out io.Writer) (*buildRun, error) {
	r := &buildRun{
		cfg:         cfg,
		strict:      b.Strict,
		logger:      logger,
		out:         out,
		recorder:    metrics.NoopRecorder{},
		metricsFile: b.MetricsFile,
	}
	if r.metricsFile == "" {
		r.metricsFile = cfg.Metrics.Textfile
	}
	if r.metricsFile != "" {
		r.registry = prom.NewRegistry()
		r.recorder = metrics.NewPrometheusRecorder(r.registry)
	}
	if b.Output != "" {
		abs, err := filepath.Abs(b.Output)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve output directory").
				WithContext("path", b.Output).Build()
		}
		r.output = abs
	}
	return r, nil
}

// buildRun holds what stays the same between the builds of one invocation.
type buildRun struct {
	cfg         *config.Config
	output      string
	strict      bool
	logger      *slog.Logger
	out         io.Writer
	recorder    metrics.Recorder
	registry    *prom.Registry
	metricsFile string
}

// once runs a single build. Every build gets a fresh App.
func (r *buildRun) once(ctx context.Context) (*host.App, error) {
	app, err := host.New(r.cfg,
		host.WithLogger(r.logger),
		host.WithRecorder(r.recorder),
		host.WithOutputDir(r.output),
	)
	if err != nil {
		return nil, err
	}

	report, err := app.Build(ctx)
	if r.registry != nil {
		if werr := metrics.WriteTextfile(r.registry, r.metricsFile); werr != nil {
			r.logger.Warn("Failed to write metrics textfile", logfields.Path(r.metricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return app, err
	}

	_, _ = fmt.Fprintf(r.out, "Built %d documents (%d images) into %s\n", report.Documents, report.Images, app.OutDir())
	if !report.HasIssues() {
		return app, nil
	}
	_, _ = fmt.Fprintf(r.out, "%d directive errors:\n", len(report.Issues))
	for _, issue := range report.Issues {
		_, _ = fmt.Fprintf(r.out, "  %s\n", issue)
	}
	if r.strict {
		return app, errors.BuildError("directive errors in strict mode").
			WithContext("issues", len(report.Issues)).Build()
	}
	return app, nil
}
