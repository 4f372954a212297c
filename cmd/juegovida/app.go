package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dropDatabas3/juegovida/internal/auth"
	"github.com/dropDatabas3/juegovida/internal/config"
	"github.com/dropDatabas3/juegovida/internal/datos"
	"github.com/dropDatabas3/juegovida/internal/domain/types"
	"github.com/dropDatabas3/juegovida/internal/metrics"
	"github.com/dropDatabas3/juegovida/internal/observability/logger"
	"github.com/dropDatabas3/juegovida/internal/security/password"
	"github.com/dropDatabas3/juegovida/internal/store/seed"
)

// app reúne lo que necesita cada subcomando.
type app struct {
	cfg   *config.Config
	rules types.Rules
	db    *datos.Datos
	auth  *auth.Authenticator
	rec   *metrics.Recorder
	reg   *prometheus.Registry
	log   *zap.Logger
}

// loadEnv carga el fichero .env. Solo es error si se pidió explícitamente.
func loadEnv(path string, explicit bool) error {
	if err := godotenv.Load(path); err != nil {
		if explicit {
			return fmt.Errorf("env file %s: %w", path, err)
		}
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		c := config.Default()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	}
	return config.Load(path)
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger.Init(logger.Config{Env: cfg.LogFormat(), Level: cfg.Log.Level, ServiceName: "juegovida"})
	log := logger.Named("juegovida")

	rules := types.DefaultRules()
	rules.Mode = cfg.ValidationMode()
	rules.Hash = cfg.HashParams()
	bl, err := password.LoadBlacklist(cfg.Security.PasswordBlacklistPath)
	if err != nil {
		return nil, fmt.Errorf("password blacklist: %w", err)
	}
	rules.Policy.Blacklist = bl

	data, err := seed.Load(cfg.Seed.File)
	if err != nil {
		return nil, err
	}

	rec := metrics.New()
	reg := prometheus.NewRegistry()
	if err := rec.Register(reg); err != nil {
		return nil, err
	}

	db, err := datos.New(ctx, data.Seeders(rules), datos.Options{
		MaxVariants: cfg.Store.MaxVariants,
		Recorder:    rec,
		Logger:      log.Named("datos"),
	})
	if err != nil {
		return nil, err
	}

	a := auth.New(db.Users, db.Sessions, auth.Options{
		MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
		LockWindow:        cfg.LockWindow(),
		Recorder:          rec,
		Logger:            log.Named("auth"),
	})

	log.Debug("datos cargados",
		logger.String("validation_mode", rules.Mode.String()),
		logger.Int("max_variants", cfg.Store.MaxVariants))
	return &app{cfg: cfg, rules: rules, db: db, auth: a, rec: rec, reg: reg, log: log}, nil
}

func (a *app) close() {
	_ = a.db.Close()
	_ = logger.Sync()
}

// envFileExists evita el error de godotenv cuando no hay .env y no se pidió.
func envFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
