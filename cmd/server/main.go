package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/tidewater/internal/config"
	"github.com/tidewater/internal/db"
	"github.com/tidewater/internal/handler"
	"github.com/tidewater/internal/logging"
	"github.com/tidewater/internal/router"
	"github.com/tidewater/internal/service"
	"github.com/tidewater/internal/storage"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	draftPruneInterval = 10 * time.Minute
	draftMaxIdle       = 12 * time.Hour
	shutdownTimeout    = 10 * time.Second
)

func main() {
	cmd := &cli.Command{
		Name:   "tidewater",
		Usage:  "Tidewater travel site content admin",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serve,
			},
			{
				Name:  "init-user",
				Usage: "Create an admin account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: initUser,
			},
			{
				Name:  "export-page",
				Usage: "Write a page document as YAML",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "slug", Required: true},
					&cli.StringFlag{Name: "out", Usage: "output file, stdout when empty"},
				},
				Action: exportPage,
			},
			{
				Name:  "import-page",
				Usage: "Replace a page document from YAML",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "slug", Required: true},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
				},
				Action: importPage,
			},
			{
				Name:   "seed",
				Usage:  "Insert demo scooters and blog posts into empty collections",
				Action: seed,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}
}

// setup 读取配置、初始化日志并打开数据库。
func setup() (config.AppConfig, error) {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := db.Init(cfg.DatabasePath); err != nil {
		return cfg, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	if err := db.EnsureUser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		return fmt.Errorf("failed to ensure super root user: %w", err)
	}

	var notifier service.LeadNotifier
	if cfg.NotificationsEnabled() {
		notifier = service.NewResendNotifier(cfg.ResendAPIKey, cfg.LeadNotifyFrom, cfg.LeadNotifyTo)
	}

	api := handler.NewAPI(db.DB, storage.NewLocalStorage(cfg.UploadDir, cfg.UploadURLPath), notifier)
	engine := router.SetupRouter(api, router.Options{
		SessionSecret:      cfg.SessionSecret,
		UploadDir:          cfg.UploadDir,
		UploadURLPath:      cfg.UploadURLPath,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return api.Workspace().RunPruner(gCtx, draftPruneInterval, draftMaxIdle)
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func initUser(_ context.Context, cmd *cli.Command) error {
	if _, err := setup(); err != nil {
		return err
	}
	user, err := db.CreateUser(db.DB, cmd.String("username"), cmd.String("password"))
	if err != nil {
		if errors.Is(err, db.ErrUserExists) {
			log.Warn().Str("username", cmd.String("username")).Msg("用户已存在，无需初始化")
			return nil
		}
		return fmt.Errorf("创建用户失败: %w", err)
	}
	log.Info().Str("username", user.Username).Msg("管理员用户创建成功")
	return nil
}
