package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"job-portal/internal/api"
	"job-portal/internal/auth"
	"job-portal/internal/blog"
	"job-portal/internal/candidate"
	"job-portal/internal/janitor"
	"job-portal/internal/job"
	"job-portal/internal/notifier"
	"job-portal/internal/slug"
	"job-portal/internal/storage"
	"job-portal/internal/upload"
)

// AppConfig 应用配置。
type AppConfig struct {
	Server   ServerConfig         `yaml:"server"`
	Database DatabaseConfig       `yaml:"database"`
	Auth     auth.Config          `yaml:"auth"`
	Uploads  UploadsConfig        `yaml:"uploads"`
	Janitor  janitor.Config       `yaml:"janitor"`
	Email    notifier.EmailConfig `yaml:"email"`
}

type ServerConfig struct {
	Addr string     `yaml:"addr"`
	API  api.Config `yaml:",inline"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type UploadsConfig struct {
	Root string `yaml:"root"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Printf("load config error: %v", err)
		return
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = "jobportal.db"
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		log.Printf("init store error: %v", err)
		return
	}
	defer store.Close()

	uploads, err := upload.NewStore(cfg.Uploads.Root, nil)
	if err != nil {
		log.Printf("init upload store error: %v", err)
		return
	}

	// 签名密钥缺失属于配置错误，必须在启动阶段失败。
	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Printf("init token manager error: %v", err)
		return
	}

	slugs := slug.NewGenerator(store)
	jobs := job.NewService(store, slugs)
	blogs := blog.NewService(store, uploads)
	candidates := candidate.NewService(store, uploads, buildNotifier(cfg.Email))
	jan := janitor.NewJanitor(store, uploads.Root(), cfg.Janitor)

	handler := api.NewHandler(jobs, blogs, candidates, store, tokens, uploads.Root(), cfg.Server.API)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8030"
	}
	srv := &http.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := jan.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("server error: %v", err)
	}
}

func loadConfig() (AppConfig, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func buildNotifier(cfg notifier.EmailConfig) candidate.Notifier {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" || len(cfg.To) == 0 {
		log.Printf("email notifier disabled: missing host/port/from/to, using log notifier")
		return notifier.NewLogNotifier(nil)
	}
	return notifier.NewEmailNotifier(cfg, nil)
}
