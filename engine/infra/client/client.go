// Package client builds the authenticated HTTP clients the probes call
// collaborators with. All collaborators share one HMPPS auth client
// credentials grant; the username parameter attributes the smoke test
// mutations in collaborator audit logs.
package client

import (
	"context"
	"net/url"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/justice-digital/dps-smoketest/pkg/config"
)

// Factory hands out resty clients backed by a shared token source.
type Factory struct {
	cfg config.ClientsConfig
	ctx context.Context
}

// NewFactory builds a factory. ctx bounds token refresh calls for the
// lifetime of the process.
func NewFactory(ctx context.Context, cfg config.ClientsConfig) *Factory {
	return &Factory{cfg: cfg, ctx: ctx}
}

// New returns a client rooted at baseURL. Without a token URL the client is
// unauthenticated, which is how local development runs against wiremock.
func (f *Factory) New(baseURL string) *resty.Client {
	client := f.restyClient()
	return client.
		SetBaseURL(baseURL).
		SetTimeout(f.cfg.Timeout).
		SetHeader("Accept", "application/json")
}

func (f *Factory) restyClient() *resty.Client {
	if f.cfg.OAuth.TokenURL == "" {
		return resty.New()
	}
	grant := clientcredentials.Config{
		TokenURL:     f.cfg.OAuth.TokenURL,
		ClientID:     f.cfg.OAuth.ClientID,
		ClientSecret: f.cfg.OAuth.ClientSecret,
		EndpointParams: url.Values{
			"username": {f.cfg.OAuth.Username},
		},
	}
	return resty.NewWithClient(grant.Client(f.ctx))
}
