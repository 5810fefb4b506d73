package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"interview-scheduler/internal/app"
	"interview-scheduler/internal/calendar"
	"interview-scheduler/internal/config"
	"interview-scheduler/internal/events"
	"interview-scheduler/internal/server"
	"interview-scheduler/internal/slots"
	"interview-scheduler/internal/speech"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "port to listen on")
	serveCmd.Flags().String("redis-url", "", "redis url for event publication (empty disables events)")

	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("redis-url", serveCmd.Flags().Lookup("redis-url"))
}

func serve(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting the "+appName, zap.String("version", version))

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	publisher, closePublisher, err := openPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	cal := calendar.New(calendar.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		TokenFile:    cfg.Google.TokenFile,
		CalendarID:   cfg.Google.CalendarID,
	})
	if cal == nil {
		logger.Info("google calendar sync disabled")
	}

	var synth speech.Synthesizer = speech.StubSynthesizer{}
	if cfg.Speech.TTSURL != "" {
		synth = speech.NewMozillaTTS(cfg.Speech.TTSURL, logger)
	}

	if cfg.Janitor.Schedule != "" {
		janitor := slots.NewJanitor(st, cfg.Janitor.Schedule, logger)
		if err := janitor.Start(ctx); err != nil {
			return err
		}
		defer janitor.Stop()
	}

	a := &app.App{
		Store:           st,
		Events:          publisher,
		Calendar:        cal,
		Synthesizer:     synth,
		Transcriber:     speech.StubTranscriber{},
		Matcher:         slots.NewMatcher(cfg.Dialogue.MaxAlternatives, cfg.Dialogue.MaxSlotDistance),
		Location:        cfg.Location,
		Company:         cfg.Company,
		InterviewLength: cfg.Dialogue.InterviewLength,
		Logger:          logger,
	}

	if len(cfg.StaticTokens) == 0 && cfg.JWTSecret == "" {
		logger.Warn("no static tokens or jwt secret configured, the API is open")
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := app.NewRouter(a, app.AuthMiddleware(cfg.StaticTokens, cfg.JWTSecret))

	return server.Run(ctx, router, cfg.Port, logger)
}

func openPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (events.Publisher, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("no redis url configured, events are dropped")
		return events.NopPublisher{}, func() {}, nil
	}
	rdb, err := events.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing events to redis")
	return events.NewRedisPublisher(rdb), func() { _ = rdb.Close() }, nil
}
