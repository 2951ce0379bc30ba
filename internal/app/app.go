package app

import (
	"net/http"
	"os"

	"gorm.io/gorm"

	"github.com/phenrril/variantstudio/internal/adapters/httpserver"
	"github.com/phenrril/variantstudio/internal/adapters/repo/memory"
	"github.com/phenrril/variantstudio/internal/adapters/repo/postgres"
	"github.com/phenrril/variantstudio/internal/adapters/storage/localfs"
	"github.com/phenrril/variantstudio/internal/config"
	"github.com/phenrril/variantstudio/internal/domain"
	"github.com/phenrril/variantstudio/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	Config    config.Config
	Repo      domain.VariantRepo
	Storage   *localfs.Storage
	VariantUC *usecase.VariantUC
}

// NewApp wires the adapters. A nil db selects the in-memory repository.
func NewApp(db *gorm.DB, cfg config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.StorageDir, 0755); err != nil {
		return nil, err
	}
	var repo domain.VariantRepo = memory.NewVariantRepo()
	if db != nil {
		repo = postgres.NewVariantRepo(db)
	}
	storage := localfs.New(cfg.StorageDir)

	app := &App{DB: db, Config: cfg, Repo: repo, Storage: storage}
	app.VariantUC = &usecase.VariantUC{Variants: repo, Storage: storage, IDs: domain.UUIDGenerator{}}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.VariantUC, a.Storage.Dir(), a.Config.MaxUploadMB)
}

func (a *App) Migrate() error {
	pg, ok := a.Repo.(*postgres.VariantRepo)
	if !ok {
		return nil
	}
	if err := pg.Migrate(); err != nil {
		return err
	}
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_variant_records_attribute_groups_gin ON variant_records USING gin (attribute_groups)").Error
	return nil
}
