package handlers

import (
	"bookshop/internal/config"
	"bookshop/internal/repos"
	"bookshop/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ReportHandler *ReportHandler
	AdminHandler  *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	catalogSvc := services.NewCatalogService(repos.NewBookRepo(db), repos.NewAuthorRepo(db), repos.NewCategoryRepo(db))
	// No console over HTTP: missing parameters are a 400.
	runner := services.NewRunner(catalogSvc, cfg.Mutations, nil)

	return &Deps{
		ReportHandler: &ReportHandler{Runner: runner},
		AdminHandler:  &AdminHandler{Runner: runner},
	}
}
