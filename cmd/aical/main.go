package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	httptools "github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"github.com/xdoubleu/essentia/v2/pkg/sentrytools"
	"github.com/xdoubleu/essentia/v2/pkg/threading"
	"github.com/xhit/go-str2duration/v2"

	"aical.dev/aical/internal/config"
	"aical.dev/aical/internal/jobs"
	"aical.dev/aical/internal/services"
	"aical.dev/aical/internal/tokencache"
	"aical.dev/aical/pkg/gcal"
	"aical.dev/aical/pkg/genai"
	"aical.dev/aical/pkg/googleauth"
)

type Application struct {
	logger   *slog.Logger
	config   config.Config
	services *services.Services
	userinfo *googleauth.UserinfoClient
	jobQueue *threading.JobQueue
}

func main() {
	cfg := config.New(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	logger := slog.New(sentrytools.NewLogHandler(cfg.Env,
		slog.NewTextHandler(os.Stdout, nil)))

	cache := tokencache.New(cfg.TokenCacheDir)

	app := NewApplication(
		logger,
		cfg,
		cache,
		gcal.New(logger),
		genai.New(logger, cfg.GeminiAPIKey),
		googleauth.NewUserinfoClient(logger),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,  //nolint:mnd //no magic number
		WriteTimeout: 10 * time.Second, //nolint:mnd //no magic number
	}
	err := httptools.Serve(logger, srv, cfg.Env)
	if err != nil {
		logger.Error("failed to serve server", logging.ErrAttr(err))
	}
}

func NewApplication(
	logger *slog.Logger,
	cfg config.Config,
	cache *tokencache.Cache,
	calendarClient gcal.Client,
	genaiClient genai.Client,
	userinfoClient *googleauth.UserinfoClient,
) *Application {
	//nolint:mnd //no magic number
	jobQueue := threading.NewJobQueue(logger, 1, 100)

	app := &Application{
		logger:   logger,
		config:   cfg,
		services: services.New(logger, cache, calendarClient, genaiClient),
		userinfo: userinfoClient,
		jobQueue: jobQueue,
	}

	interval, err := str2duration.ParseDuration(cfg.ExpiryCheckInterval)
	if err != nil {
		panic(err)
	}

	err = jobQueue.AddJob(
		jobs.NewTokenExpiryJob(app.services.Session, interval),
		func(string, bool, *time.Time) {},
	)
	if err != nil {
		panic(err)
	}

	return app
}
