package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrtti/sightline/internal/ai"
	"github.com/myrtti/sightline/internal/broker"
	"github.com/myrtti/sightline/internal/envstruct"
	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/logging"
	"github.com/myrtti/sightline/internal/pprofserver"
	"github.com/myrtti/sightline/internal/repositories"
	"github.com/myrtti/sightline/internal/screening"
	"github.com/myrtti/sightline/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	aiClient       ai.Client
	catalog        *screening.Catalog
	sessions       *screening.Registry
	emitter        *screening.Emitter
	reports        *broker.ChannelBroker[string, string]
	users          *repositories.UserRepository
	results        *repositories.TestResultRepository
	xp             *repositories.XPRepository
	streaks        *repositories.StreakRepository
}

type config struct {
	Addr         string `env:"SIGHTLINE_ADDR" envDefault:"localhost:4000"`
	SQLiteURL    string `env:"SIGHTLINE_SQLITE_URL" envDefault:"./sightline.sqlite"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	BaseXP       string `env:"SIGHTLINE_BASE_XP" envDefault:"50"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg config
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse config")
	}
	baseXP, err := strconv.Atoi(cfg.BaseXP)
	if err != nil {
		return errors.Wrap(err, "parse base XP", slog.String("value", cfg.BaseXP))
	}

	dbs, err := sqlite.NewDatabase(ctx, cfg.SQLiteURL, logger)
	if err != nil {
		return errors.Wrap(err, "connect to database", slog.String("url", cfg.SQLiteURL))
	}
	go dbs.StartDatabaseOptimizer(ctx)

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	catalog, err := screening.LoadCatalog(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if err != nil {
		return errors.Wrap(err, "load plate catalog")
	}

	users := repositories.NewUserRepository(dbs, logger)
	results := repositories.NewTestResultRepository(dbs, logger)
	xp := repositories.NewXPRepository(dbs, logger)
	streaks := repositories.NewStreakRepository(dbs, logger)

	reports := broker.NewChannelBroker[string, string]()
	go reports.Start()
	defer reports.Stop()

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		aiClient:       ai.NewClient(cfg.OpenAIAPIKey),
		catalog:        catalog,
		sessions:       screening.NewRegistry(),
		emitter:        screening.NewEmitter(results, xp, streaks, baseXP, logger),
		reports:        reports,
		users:          users,
		results:        results,
		xp:             xp,
		streaks:        streaks,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	ctx := context.Background()

	loggerHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})
	logger := slog.New(logging.NewContextHandler(loggerHandler))

	// The .env file is optional, e.g. in production the environment comes from
	// the hosting platform.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", errors.SlogError(err))
	}

	// Initialise pprof listening on localhost so that it's not open to the world.
	pprofPort := os.Getenv("SIGHTLINE_PPROF_PORT")
	if pprofPort == "" {
		pprofPort = ":6060"
	}
	pprofserver.Launch(pprofPort, logger)

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.Error(err.Error(), errors.SlogError(err))
		os.Exit(1)
	}
}
