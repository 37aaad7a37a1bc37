// Package oauth verifies Google sign-in ID tokens.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"appmarket/pkg/utils"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrInvalidIDToken = errors.New("invalid google id token")

type GoogleProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type tokenInfo struct {
	Audience      string `json:"aud"`
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleVerifier checks ID tokens against Google's tokeninfo endpoint.
type GoogleVerifier struct {
	client       *resty.Client
	tokenInfoURL string
	clientID     string
	log          *zap.Logger
}

func NewGoogleVerifier(cfg utils.GoogleConfig, log *zap.Logger) *GoogleVerifier {
	return &GoogleVerifier{
		client:       resty.New().SetTimeout(10 * time.Second),
		tokenInfoURL: cfg.TokenInfoURL,
		clientID:     cfg.ClientID,
		log:          log.With(zap.String("component", "google")),
	}
}

// Verify returns the profile behind idToken. The token must be issued for the
// configured client id.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleProfile, error) {
	var info tokenInfo

	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParam("id_token", idToken).
		SetResult(&info).
		Get(v.tokenInfoURL)
	if err != nil {
		v.log.Error("Tokeninfo request failed", zap.Error(err))
		return nil, fmt.Errorf("verify google token: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		v.log.Warn("Google rejected id token", zap.Int("status", resp.StatusCode()))
		return nil, ErrInvalidIDToken
	}

	if info.Subject == "" || (v.clientID != "" && info.Audience != v.clientID) {
		v.log.Warn("Google id token has unexpected audience", zap.String("aud", info.Audience))
		return nil, ErrInvalidIDToken
	}

	return &GoogleProfile{
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		Name:          info.Name,
	}, nil
}
