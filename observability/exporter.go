package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xarena/lib/infra"
)

// MetricsShutdown flushes and stops the installed meter provider.
type MetricsShutdown func(ctx context.Context) error

type exporterCfg struct {
	interval     time.Duration
	timeout      time.Duration
	writer       io.Writer
	registerer   promclient.Registerer
	runtimeStats bool
}

type ExporterOption func(*exporterCfg)

// WithConsoleInterval sets the push interval and export timeout of the
// console exporter.
func WithConsoleInterval(interval, timeout time.Duration) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.interval = interval
		cfg.timeout = timeout
	}
}

// WithConsoleWriter replaces os.Stdout as the console exporter output.
func WithConsoleWriter(w io.Writer) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.writer = w
	}
}

// WithPrometheusRegisterer replaces the prometheus default registerer.
func WithPrometheusRegisterer(reg promclient.Registerer) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.registerer = reg
	}
}

// WithRuntimeStats also exports the Go runtime meters (heap, GC,
// goroutines), which is where the arena growth shows up.
func WithRuntimeStats() ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.runtimeStats = true
	}
}

func newExporterCfg(opts ...ExporterOption) *exporterCfg {
	cfg := &exporterCfg{
		interval: 30 * time.Second,
		timeout:  5 * time.Second,
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

func install(mp *metric.MeterProvider, cfg *exporterCfg) (MetricsShutdown, error) {
	if cfg.runtimeStats {
		if err := otelruntime.Start(otelruntime.WithMeterProvider(mp)); err != nil {
			_ = mp.Shutdown(context.Background())
			return nil, infra.WrapErrorStackWithMessage(err, "start runtime stats")
		}
	}
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewConsoleMetricsExporter serves for test/dev environment. The tree
// and arena stats are printed as JSON every interval and on shutdown.
func NewConsoleMetricsExporter(opts ...ExporterOption) (MetricsShutdown, error) {
	cfg := newExporterCfg(opts...)
	stdoutOpts := make([]stdoutmetric.Option, 0, 1)
	if cfg.writer != nil {
		stdoutOpts = append(stdoutOpts, stdoutmetric.WithWriter(cfg.writer))
	}
	exporter, err := stdoutmetric.New(stdoutOpts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "new console metrics exporter")
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(cfg.interval),
		metric.WithTimeout(cfg.timeout),
	)))
	return install(mp, cfg)
}

// NewPrometheusMetricsExporter serves for the product environment, the
// stats are pulled through the registerer's HTTP handler.
func NewPrometheusMetricsExporter(opts ...ExporterOption) (MetricsShutdown, error) {
	cfg := newExporterCfg(opts...)
	promOpts := make([]prometheus.Option, 0, 1)
	if cfg.registerer != nil {
		promOpts = append(promOpts, prometheus.WithRegisterer(cfg.registerer))
	}
	exporter, err := prometheus.New(promOpts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "new prometheus metrics exporter")
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	return install(mp, cfg)
}
