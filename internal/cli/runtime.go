package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/versionstore-go/internal/config"
	"github.com/AntonStoeckl/versionstore-go/versionstore/accesscontrol"
	"github.com/AntonStoeckl/versionstore-go/versionstore/oteladapters"
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine"
	"github.com/AntonStoeckl/versionstore-go/versionstore/promadapters"
)

const (
	instrumentationName      = "github.com/AntonStoeckl/versionstore-go"
	metricsPath              = "/metrics"
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 5 * time.Second
)

var ErrReadingPolicyFailed = errors.New("reading the access policy file failed")

// storeRuntime bundles an opened Store with everything that must be released after the command.
type storeRuntime struct {
	store    postgresengine.Store
	registry *prometheus.Registry
	closers  []func()
}

func (r *storeRuntime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// openStore connects with the configured adapter and wires logging, tracing and metrics into the Store.
// With a metrics address, the Prometheus endpoint is served until Close.
func (o *RootOptions) openStore(ctx context.Context) (*storeRuntime, error) {
	runtime := &storeRuntime{registry: prometheus.NewRegistry()}
	runtime.registry.MustRegister(collectors.NewGoCollector())

	options := append(
		o.cfg.Store.StoreOptions(),
		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLoggerFromLogger(o.logger)),
		postgresengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))),
		postgresengine.WithMetrics(promadapters.NewMetricsCollector(runtime.registry)),
	)

	store, err := o.connect(ctx, runtime, options)
	if err != nil {
		runtime.Close()
		return nil, err
	}

	runtime.store = store

	if o.cfg.Metrics.Addr != "" {
		runtime.closers = append(runtime.closers, startMetricsServer(o.cfg.Metrics.Addr, runtime.registry, o.logger))
	}

	return runtime, nil
}

func (o *RootOptions) connect(
	ctx context.Context,
	runtime *storeRuntime,
	options []postgresengine.Option,
) (postgresengine.Store, error) {

	dbConfig := o.cfg.Database

	switch dbConfig.Adapter {
	case config.AdapterSQLDB:
		db, err := dbConfig.OpenSQLDB(ctx)
		if err != nil {
			return postgresengine.Store{}, err
		}
		runtime.closers = append(runtime.closers, func() { _ = db.Close() })

		return postgresengine.NewStoreFromSQLDB(db, options...)

	case config.AdapterSQLX:
		db, err := dbConfig.OpenSQLX(ctx)
		if err != nil {
			return postgresengine.Store{}, err
		}
		runtime.closers = append(runtime.closers, func() { _ = db.Close() })

		return postgresengine.NewStoreFromSQLX(db, options...)

	default:
		primary, err := newPGXPool(ctx, dbConfig.PGXPoolConfig)
		if err != nil {
			return postgresengine.Store{}, err
		}
		runtime.closers = append(runtime.closers, primary.Close)

		replica, replicaErr := newPGXPool(ctx, dbConfig.ReplicaPGXPoolConfig)
		if replicaErr != nil {
			return postgresengine.Store{}, replicaErr
		}

		if replica != nil {
			runtime.closers = append(runtime.closers, replica.Close)
		}

		return postgresengine.NewStoreFromPGXPoolAndReplica(primary, replica, options...)
	}
}

// newPGXPool creates and pings a pool. It returns nil if poolConfig yields no config.
func newPGXPool(ctx context.Context, poolConfig func() (*pgxpool.Config, error)) (*pgxpool.Pool, error) {
	cfg, err := poolConfig()
	if err != nil || cfg == nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Join(config.ErrConnectingFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(config.ErrConnectingFailed, pingErr)
	}

	return pool, nil
}

func startMetricsServer(addr string, registry *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint failed", "addr", addr, "error", err.Error())
		}
	}()

	logger.Info("serving metrics", "addr", addr, "path", metricsPath)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		_ = server.Shutdown(ctx)
	}
}

// loadEvaluator reads the casbin policy file. Without a policy file it returns nil, which allows all documents.
func loadEvaluator(access config.AccessConfig) (accesscontrol.Evaluator, error) {
	if access.PolicyFile == "" {
		return nil, nil
	}

	policy, err := os.ReadFile(access.PolicyFile)
	if err != nil {
		return nil, errors.Join(ErrReadingPolicyFailed, err)
	}

	var options []accesscontrol.Option
	if access.OwnerField != "" {
		options = append(options, accesscontrol.WithOwnerField(access.OwnerField))
	}

	evaluator, err := accesscontrol.NewCasbinEvaluator(string(policy), options...)
	if err != nil {
		return nil, err
	}

	return evaluator, nil
}
