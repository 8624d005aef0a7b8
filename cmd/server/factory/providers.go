package factory

import (
	"errors"
	"log/slog"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/apiclient"
	"github.com/TransferDaily/pkg/config"
)

// APIPorts exposes the remote API client through each port the services consume.
type APIPorts struct {
	Reader   domain.ArticleReader
	Writer   domain.SiteWriter
	Articles domain.ArticleAdmin
	Catalog  domain.CatalogAdmin
	Audience domain.AudienceAdmin
}

// NewAPIClient creates the client for the remote content API.
func NewAPIClient(cfg *config.Config) (*apiclient.Client, error) {
	if cfg.APIURL == "" {
		return nil, errors.New("API URL not configured")
	}
	slog.Info("Registered content API", "url", cfg.APIURL, "timeout", cfg.APITimeout)
	return apiclient.New(cfg.APIURL, cfg.APITimeout), nil
}

// NewAPIPorts splits the client into the narrow interfaces the services take.
func NewAPIPorts(c *apiclient.Client) APIPorts {
	return APIPorts{Reader: c, Writer: c, Articles: c, Catalog: c, Audience: c}
}
