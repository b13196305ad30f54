// Package wallet handles OAuth2 credential refresh for linked digital
// wallets.
package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/service"
)

// refreshSkew refreshes tokens slightly before their recorded expiry so
// a token never goes stale mid-request.
const refreshSkew = 2 * time.Minute

// ProviderEndpoints maps wallet providers to their OAuth2 token endpoints.
// Providers without an entry cannot be synced.
var ProviderEndpoints = map[model.WalletType]oauth2.Endpoint{
	model.WalletPayPal: {
		AuthURL:  "https://www.paypal.com/signin/authorize",
		TokenURL: "https://api.paypal.com/v1/oauth2/token",
	},
	model.WalletGooglePay: {
		AuthURL:  "https://accounts.google.com/o/oauth2/auth",
		TokenURL: "https://oauth2.googleapis.com/token",
	},
	model.WalletStripe: {
		AuthURL:  "https://connect.stripe.com/oauth/authorize",
		TokenURL: "https://connect.stripe.com/oauth/token",
	},
}

// Credentials holds the OAuth2 app credentials for one wallet provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Refresher exchanges stored refresh tokens for fresh access tokens.
type Refresher struct {
	creds  map[model.WalletType]Credentials
	logger *slog.Logger
}

// NewRefresher builds a Refresher from per-provider app credentials.
// Providers with empty credentials are skipped.
func NewRefresher(creds map[model.WalletType]Credentials) *Refresher {
	active := make(map[model.WalletType]Credentials, len(creds))
	for provider, c := range creds {
		if c.ClientID == "" || c.ClientSecret == "" {
			continue
		}
		active[provider] = c
	}
	return &Refresher{
		creds:  active,
		logger: slog.Default().With("component", "wallet"),
	}
}

// Refresh returns a valid credential triple for the wallet, exchanging
// the refresh token when the stored access token is missing or expired.
// A nil result with nil error means the stored token is still good.
func (r *Refresher) Refresh(ctx context.Context, w *model.DigitalWallet) (*service.WalletToken, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if w.RefreshToken == "" {
		return nil, common.ErrSyncNotConfigured
	}

	if w.AccessToken != "" && w.TokenExpiry != nil && time.Until(*w.TokenExpiry) > refreshSkew {
		return nil, nil
	}

	cfg, err := r.configFor(w.WalletType)
	if err != nil {
		return nil, err
	}

	stale := &oauth2.Token{
		AccessToken:  w.AccessToken,
		RefreshToken: w.RefreshToken,
	}
	if w.TokenExpiry != nil {
		stale.Expiry = *w.TokenExpiry
	}

	fresh, err := cfg.TokenSource(ctx, stale).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh %s token: %w", w.WalletType, err)
	}

	r.logger.Info("refreshed wallet token",
		"wallet_id", w.ID,
		"provider", w.WalletType)

	token := &service.WalletToken{
		AccessToken:  fresh.AccessToken,
		RefreshToken: fresh.RefreshToken,
	}
	// Providers may rotate or omit the refresh token on exchange.
	if token.RefreshToken == "" {
		token.RefreshToken = w.RefreshToken
	}
	if !fresh.Expiry.IsZero() {
		expiry := fresh.Expiry.UTC()
		token.Expiry = &expiry
	}
	return token, nil
}

func (r *Refresher) configFor(provider model.WalletType) (*oauth2.Config, error) {
	endpoint, ok := ProviderEndpoints[provider]
	if !ok {
		return nil, fmt.Errorf("wallet provider %s does not support sync: %w", provider, common.ErrSyncNotConfigured)
	}
	creds, ok := r.creds[provider]
	if !ok {
		return nil, fmt.Errorf("no credentials configured for %s: %w", provider, common.ErrSyncNotConfigured)
	}
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     endpoint,
	}, nil
}
