package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"

	api "github.com/mind-engage/cognitrack/internal/api/http"
	"github.com/mind-engage/cognitrack/internal/config"
	"github.com/mind-engage/cognitrack/internal/db"
	"github.com/mind-engage/cognitrack/internal/directory"
	"github.com/mind-engage/cognitrack/internal/eventlog"
	"github.com/mind-engage/cognitrack/internal/logging"
	"github.com/mind-engage/cognitrack/internal/metrics"
	"github.com/mind-engage/cognitrack/internal/quiz"
	"github.com/mind-engage/cognitrack/internal/results"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.HTTPAddr, "listen address")
	driver := flag.String("store", string(cfg.StoreDriver), "result store: memory|sqlite|postgres|redis")
	dsn := flag.String("dsn", cfg.DBDSN, "database DSN for sqlite/postgres")
	banks := flag.String("banks", cfg.QuestionBankDir, "directory of YAML question banks")
	verify := flag.Bool("verify-scores", cfg.VerifyScores, "recompute submitted scores against known banks")
	level := flag.String("log-level", cfg.LogLevel.String(), "debug|info|warn|error")
	flag.Parse()

	cfg.HTTPAddr = *addr
	cfg.StoreDriver = config.StoreDriver(strings.ToLower(*driver))
	cfg.DBDSN = *dsn
	cfg.QuestionBankDir = *banks
	cfg.VerifyScores = *verify
	cfg.LogLevel = config.ParseLevel(*level)

	log := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bk, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer bk.close()
	log.Info("stores ready", "driver", cfg.StoreDriver)

	if err := seed(ctx, cfg, bk.directory, log); err != nil {
		return err
	}

	rec := metrics.New()
	svc := results.NewService(bk.results,
		results.WithBanks(directory.BankSource{Store: bk.directory}),
		results.WithEvents(bk.events),
		results.WithMetrics(rec),
		results.WithLogger(log),
		results.WithScoreVerification(cfg.VerifyScores),
	)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Deps{
			Results:        svc,
			Directory:      bk.directory,
			Metrics:        rec,
			Logger:         log,
			CORSOrigins:    cfg.CORSOrigins,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type backend struct {
	results   results.Store
	directory directory.Store
	events    eventlog.Log
	closers   []func() error
}

func (b *backend) close() {
	for _, c := range b.closers {
		_ = c()
	}
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory, "":
		return &backend{
			results:   results.NewMemoryStore(),
			directory: directory.NewMemoryStore(),
			events:    eventlog.NewMemoryLog(),
		}, nil

	case config.StoreSQLite, config.StorePostgres:
		octx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		dbh, err := db.Open(octx, db.Driver(cfg.StoreDriver), cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return sqlBackend(dbh), nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pctx).Err(); err != nil {
			rdb.Close()
			return nil, err
		}
		// redis keeps only results; the directory stays in process
		return &backend{
			results:   results.NewRedisStore(rdb, cfg.RedisPrefix),
			directory: directory.NewMemoryStore(),
			events:    eventlog.NewMemoryLog(),
			closers:   []func() error{rdb.Close},
		}, nil
	}
	return nil, errors.New("unknown store driver: " + string(cfg.StoreDriver))
}

func sqlBackend(dbh *sql.DB) *backend {
	return &backend{
		results:   results.NewSQLStore(dbh),
		directory: directory.NewSQLStore(dbh),
		events:    eventlog.NewSQLLog(dbh),
		closers:   []func() error{dbh.Close},
	}
}

func seed(ctx context.Context, cfg config.Config, dir directory.Store, log *slog.Logger) error {
	var files []quiz.BankFile
	if cfg.SeedDemo {
		files = append(files, quiz.DemoBankFile())
		n, err := directory.SeedClassrooms(ctx, dir, directory.DemoClassrooms())
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("seeded classrooms", "count", n)
		}
	}
	if cfg.QuestionBankDir != "" {
		loaded, err := quiz.LoadBankDir(cfg.QuestionBankDir)
		if err != nil {
			return err
		}
		files = append(files, loaded...)
	}
	n, err := directory.SeedBanks(ctx, dir, files)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("seeded assessments", "count", n)
	}
	return nil
}
