package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"easymod/internal/adapter/discord"
	httpadapter "easymod/internal/adapter/http"
	"easymod/internal/adapter/metrics"
	metricsinmem "easymod/internal/adapter/metrics/inmemory"
	metricsprom "easymod/internal/adapter/metrics/prom"
	gormrepo "easymod/internal/adapter/repo/gorm"
	"easymod/internal/adapter/repo/memory"
	"easymod/internal/app/action"
	"easymod/internal/app/auth"
	"easymod/internal/app/settings"
	"easymod/internal/config"
	easyotel "easymod/internal/platform/otel"

	"github.com/bwmarrin/discordgo"
	"github.com/carlmjohnson/versioninfo"
	"github.com/cloudwego/hertz/pkg/app/server"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const serviceName = "easymod"

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return newApp().Run(args)
}

func newApp() *cli.App {
	return &cli.App{
		Name:    serviceName,
		Usage:   "moderation bot for Discord servers",
		Version: versioninfo.Short(),
		Commands: []*cli.Command{
			serveCmd,
			registerCmd,
		},
	}
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "run the bot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "mode",
			Usage: "how interactions arrive: gateway (websocket) or http (interactions endpoint)",
		},
	},
	Action: func(cctx *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if mode := cctx.String("mode"); mode != "" {
			cfg.Mode = mode
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := newLogger(cfg.SlogLevel())
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

var registerCmd = &cli.Command{
	Name:  "register-commands",
	Usage: "publish slash command definitions",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "guild",
			Usage: "register to one server only (instant, for development); empty registers globally",
		},
	},
	Action: func(cctx *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.ValidateRegistration(); err != nil {
			return err
		}
		logger := newLogger(cfg.SlogLevel())

		guildID := cctx.String("guild")
		if guildID == "" {
			guildID = cfg.DevGuildID
		}
		session, err := newSession(cfg.DiscordToken)
		if err != nil {
			return err
		}
		cmds, err := discord.RegisterCommands(cctx.Context, session, cfg.ApplicationID, guildID)
		if err != nil {
			return err
		}
		logger.Info("commands registered", "count", len(cmds), "guild", guildID)
		return nil
	},
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracing, err := easyotel.Setup(ctx, serviceName, versioninfo.Short())
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("shutdown tracing", "err", err)
		}
	}()

	settingsUC, err := buildSettings(ctx, cfg, logger)
	if err != nil {
		return err
	}

	kpiRecorder := metricsinmem.NewRecorder()
	recorder := metrics.Tee{kpiRecorder, metricsprom.NewRecorder(prometheus.DefaultRegisterer)}

	session, err := newSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	me, err := session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("resolve bot user: %w", err)
	}
	logger.Info("authenticated", "user", me.ID, "mode", cfg.Mode, "version", versioninfo.Short())

	router := discord.Router{
		Moderation: action.UseCase{
			Platform: discord.NewPlatform(session),
			Settings: settingsUC,
			Metrics:  recorder,
			Logger:   logger,
			AgentID:  me.ID,
			Now:      time.Now,
		},
		Settings: settingsUC,
		Logger:   logger,
	}

	handler := httpadapter.Handler{
		Router:  router,
		KPI:     kpiRecorder,
		Version: versioninfo.Short(),
		Logger:  logger,

		OpsAllowOrigin: cfg.OpsAllowOrigin,
	}
	if cfg.PublicKey != "" {
		key, err := auth.ParsePublicKey(cfg.PublicKey)
		if err != nil {
			return fmt.Errorf("parse public key: %w", err)
		}
		handler.VerifyUC = auth.VerifyUseCase{PublicKey: key, MaxSkew: cfg.SignatureMaxSkew}
	}

	h := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	handler.RegisterRoutes(h)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := h.Run(); err != nil && gctx.Err() == nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if cfg.Mode == config.ModeGateway {
		g.Go(func() error {
			return discord.Gateway{Session: session, Router: router, Logger: logger}.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(h.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

func buildSettings(ctx context.Context, cfg config.Config, logger *slog.Logger) (settings.UseCase, error) {
	if cfg.DBDSN == "" {
		logger.Warn("EASYMOD_DB_DSN not set, guild settings are kept in memory")
		store := memory.NewStore()
		return settings.UseCase{
			Repo:      memory.NewGuildSettingsRepo(store),
			TxManager: memory.NewTxManager(store),
			Now:       time.Now,
		}, nil
	}
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		return settings.UseCase{}, err
	}
	if err := gormrepo.ApplyMigrations(ctx, db, gormrepo.Migrations()); err != nil {
		return settings.UseCase{}, fmt.Errorf("apply migrations: %w", err)
	}
	return settings.UseCase{
		Repo:      gormrepo.NewGuildSettingsRepo(db),
		TxManager: gormrepo.NewTxManager(db),
		Now:       time.Now,
	}, nil
}

func newSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	// Snapshots must come from the API on every command.
	session.StateEnabled = false
	session.UserAgent = fmt.Sprintf("DiscordBot (easymod, %s)", versioninfo.Short())
	return session, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
