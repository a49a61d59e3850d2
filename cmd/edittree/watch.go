package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/edittree/internal/engine/buffer"
	"github.com/dshills/edittree/internal/metrics"
	"github.com/dshills/edittree/internal/watcher"
)

func newWatchCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Reload a file into a buffer whenever it changes",
		Long: `Watch keeps a buffer in sync with a file, replacing its contents on every
change and logging the resulting tree shape. With a metrics address the
tree size, height, rotations and reload timings are served at /metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("metrics-addr") {
				c.cfg.Metrics.Addr = addr
			}
			return c.watch(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&addr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func (c *cli) watch(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text := string(data)
	buf := buffer.NewBufferFromString(text, c.bufferOptions(text)...)

	collector := metrics.New(c.cfg.Metrics.Namespace)
	collector.Track(path, buf)

	w, err := watcher.New(path, reloadHandler(buf, collector, c.logger),
		watcher.WithDebounce(c.cfg.Watch.Debounce),
		watcher.WithLogger(c.logger),
	)
	if err != nil {
		return err
	}
	c.logger.Info("watching", "path", w.Path(), "size", buf.Len(), "height", buf.Height())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(ctx) })

	if c.cfg.Metrics.Addr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collector)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{
			Addr:              c.cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			c.logger.Info("serving metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// reloadHandler replaces buf's contents with the file at path on every call.
func reloadHandler(buf *buffer.Buffer, collector *metrics.Collector, logger *slog.Logger) watcher.Handler {
	return func(_ context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := buf.Replace(0, buf.Len(), string(data)); err != nil {
			return err
		}
		collector.Observe("reload", start)

		if err := buf.Check(); err != nil {
			return err
		}
		logger.Info("reloaded",
			"path", path,
			"size", buf.Len(),
			"lines", buf.LineCount(),
			"height", buf.Height(),
			"rotations", buf.Rotations(),
			"elapsed", time.Since(start),
		)
		return nil
	}
}
