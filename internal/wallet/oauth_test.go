package wallet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/mintleaf/internal/common"
	"github.com/calloway/mintleaf/internal/model"
)

func testCreds() map[model.WalletType]Credentials {
	return map[model.WalletType]Credentials{
		model.WalletPayPal: {ClientID: "client", ClientSecret: "secret"},
	}
}

func TestNewRefresher_SkipsEmptyCredentials(t *testing.T) {
	r := NewRefresher(map[model.WalletType]Credentials{
		model.WalletPayPal:    {ClientID: "client", ClientSecret: "secret"},
		model.WalletGooglePay: {ClientID: "client"},
	})

	assert.Contains(t, r.creds, model.WalletPayPal)
	assert.NotContains(t, r.creds, model.WalletGooglePay)
}

func TestRefresh_NoRefreshToken(t *testing.T) {
	r := NewRefresher(testCreds())

	_, err := r.Refresh(context.Background(), &model.DigitalWallet{
		WalletType: model.WalletPayPal,
	})
	assert.ErrorIs(t, err, common.ErrSyncNotConfigured)
}

func TestRefresh_StoredTokenStillValid(t *testing.T) {
	r := NewRefresher(testCreds())

	expiry := time.Now().Add(time.Hour)
	token, err := r.Refresh(context.Background(), &model.DigitalWallet{
		WalletType:   model.WalletPayPal,
		AccessToken:  "still-good",
		RefreshToken: "refresh",
		TokenExpiry:  &expiry,
	})
	require.NoError(t, err)
	assert.Nil(t, token, "a valid stored token needs no exchange")
}

func TestRefresh_UnconfiguredProvider(t *testing.T) {
	r := NewRefresher(testCreds())

	tests := []struct {
		name       string
		walletType model.WalletType
	}{
		{name: "no endpoint", walletType: model.WalletUPI},
		{name: "no credentials", walletType: model.WalletStripe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Refresh(context.Background(), &model.DigitalWallet{
				WalletType:   tt.walletType,
				RefreshToken: "refresh",
			})
			assert.ErrorIs(t, err, common.ErrSyncNotConfigured)
		})
	}
}

func TestRefresh_ExchangesExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	original := ProviderEndpoints[model.WalletPayPal]
	ProviderEndpoints[model.WalletPayPal] = oauth2.Endpoint{TokenURL: srv.URL}
	defer func() { ProviderEndpoints[model.WalletPayPal] = original }()

	r := NewRefresher(testCreds())

	stale := time.Now().Add(-time.Hour)
	token, err := r.Refresh(context.Background(), &model.DigitalWallet{
		ID:           "w1",
		WalletType:   model.WalletPayPal,
		AccessToken:  "stale",
		RefreshToken: "refresh",
		TokenExpiry:  &stale,
	})
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken, "old refresh token kept when the provider omits one")
	require.NotNil(t, token.Expiry)
	assert.True(t, token.Expiry.After(time.Now()))
}
