package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shah-jinay/image-tool.io/internal/config"
	"github.com/shah-jinay/image-tool.io/internal/convert"
	"github.com/shah-jinay/image-tool.io/internal/preview"
	"github.com/shah-jinay/image-tool.io/internal/queue"
	"github.com/shah-jinay/image-tool.io/internal/settings"
	"github.com/shah-jinay/image-tool.io/internal/transport/handler"
	"github.com/shah-jinay/image-tool.io/internal/transport/router"
)

type App struct {
	HttpServer *http.Server
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	renderer := preview.NewRenderer(cfg.Preview.MaxThumbSide)
	q := queue.NewManager(renderer, &http.Client{Timeout: 30 * time.Second})

	client := convert.NewClient(cfg.Convert.APIBase, cfg.Convert.Timeout*time.Second)

	store, err := newSettingsStore(ctx, &cfg.Settings)
	if err != nil {
		return nil, err
	}
	prefs := settings.NewManager(store, cfg.Settings.DefaultTheme)

	h := handler.New(q, client, prefs, cfg)
	r := router.NewRouter(h)

	s := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout * time.Second,
		WriteTimeout: cfg.Server.WriteTimeout * time.Second,
	}

	return &App{
		HttpServer: s,
	}, nil
}

// newSettingsStore picks the preference backend: redis when nodes are
// configured, else the settings file, else memory only.
func newSettingsStore(ctx context.Context, cfg *config.SettingsConfig) (settings.Store, error) {
	if len(cfg.Redis.Nodes) > 0 {
		addrs := make([]string, 0, len(cfg.Redis.Nodes))
		for _, n := range cfg.Redis.Nodes {
			addrs = append(addrs, n.Addr())
		}
		cl, err := settings.DialRedis(ctx, settings.RedisOptions{
			Addrs:        addrs,
			Password:     cfg.Redis.Password,
			DatabaseID:   cfg.Redis.DatabaseID,
			DialTimeout:  cfg.Redis.DialTimeout * time.Second,
			ReadTimeout:  cfg.Redis.ReadTimeout * time.Second,
			WriteTimeout: cfg.Redis.WriteTimeout * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return settings.NewRedisStore(cfg.Namespace, cl), nil
	}
	if cfg.FilePath != "" {
		return settings.NewFileStore(cfg.FilePath), nil
	}
	log.Printf("[app] no settings backend configured; preferences will not persist")
	return settings.NewMemoryStore(), nil
}

func (a *App) Run() error {
	log.Printf("starting server")
	return a.HttpServer.ListenAndServe()
}
