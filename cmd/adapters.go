package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eykd/timeid-go/internal/config"
	"github.com/eykd/timeid-go/internal/fs"
	"github.com/eykd/timeid-go/internal/logging"
	"github.com/eykd/timeid-go/internal/server"
	"github.com/eykd/timeid-go/pkg/timeid"
)

// shutdownGrace bounds how long serve waits for in-flight requests.
const shutdownGrace = 5 * time.Second

// Services supplies the configuration and backends that commands run
// against.
type Services interface {
	Config() (*config.Config, error)
	Generate(ctx context.Context, n int) ([]string, error)
	AppendLines(ctx context.Context, path string, lines []string, lockTimeout time.Duration) error
	Serve(ctx context.Context, addr string) error
}

// runtime is the production Services implementation. Configuration, the
// logger and the shared generator are created on first use so that commands
// which need none of them never read the config file or the seed source.
type runtime struct {
	stderr   io.Writer
	appender *fs.OSAppender

	cfgOnce sync.Once
	cfg     *config.Config
	logger  *slog.Logger
	cfgErr  error

	genOnce sync.Once
	gen     *timeid.Generator
	genErr  error
}

func newRuntime(stderr io.Writer) *runtime {
	return &runtime{stderr: stderr, appender: &fs.OSAppender{}}
}

// Config loads the configuration named by --config and sets up logging.
func (r *runtime) Config() (*config.Config, error) {
	r.cfgOnce.Do(func() {
		cfg, err := config.Load(GetConfigPath())
		if err != nil {
			r.cfgErr = &ContextError{Op: "loading config", Path: GetConfigPath(), Err: err}
			return
		}
		level := cfg.Log.Level
		if GetVerbose() {
			level = "debug"
		}
		r.cfg = cfg
		r.logger = logging.New(level, cfg.Log.Format, r.stderr)
	})
	return r.cfg, r.cfgErr
}

func (r *runtime) generator() (*timeid.Generator, error) {
	r.genOnce.Do(func() {
		cfg, err := r.Config()
		if err != nil {
			r.genErr = err
			return
		}
		r.gen, r.genErr = timeid.New(
			timeid.WithPoolBlocks(cfg.Generator.PoolBlocks),
			timeid.WithLogger(r.logger),
		)
	})
	return r.gen, r.genErr
}

// Generate returns n new IDs from the shared generator.
func (r *runtime) Generate(ctx context.Context, n int) ([]string, error) {
	gen, err := r.generator()
	if err != nil {
		return nil, err
	}
	ids := make([]string, n)
	for i := range ids {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		ids[i] = gen.Generate()
	}
	return ids, nil
}

// AppendLines appends lines to path under the file's advisory lock.
func (r *runtime) AppendLines(ctx context.Context, path string, lines []string, lockTimeout time.Duration) error {
	if _, err := r.Config(); err != nil {
		return err
	}
	r.logger.Debug("appending ids", slog.String("path", path), slog.Int("count", len(lines)))
	return r.appender.AppendLines(ctx, path, lines, lockTimeout)
}

// Serve runs the HTTP service until ctx ends.
func (r *runtime) Serve(ctx context.Context, addr string) error {
	gen, err := r.generator()
	if err != nil {
		return err
	}
	cfg := r.cfg
	if addr == "" {
		addr = cfg.Server.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	srv := server.New(gen,
		server.WithMaxBatch(cfg.Server.MaxBatch),
		server.WithLogger(r.logger),
		server.WithRegistry(reg),
	)
	if err := srv.Run(ctx, addr, shutdownGrace); err != nil {
		return fmt.Errorf("serving on %s: %w", addr, err)
	}
	return nil
}

// Close erases the generator state, if one was created.
func (r *runtime) Close() {
	if r.gen != nil {
		r.gen.Close()
	}
}
