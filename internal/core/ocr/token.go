package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const visionScope = "https://www.googleapis.com/auth/cloud-vision"

// ErrInvalidCredentials is returned for a service-account descriptor that is
// neither JSON nor base64-encoded JSON.
var ErrInvalidCredentials = errors.New("invalid service account credentials")

// accessToken caches one short-lived bearer token for a single adapter
// instance and refreshes it after expiry.
type accessToken struct {
	mu     sync.Mutex
	conf   *jwt.Config
	client *http.Client
	token  *oauth2.Token
}

func newAccessToken(credentials string, client *http.Client) (*accessToken, error) {
	raw, err := decodeCredentials(credentials)
	if err != nil {
		return nil, err
	}

	conf, err := google.JWTConfigFromJSON(raw, visionScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return &accessToken{conf: conf, client: client}, nil
}

// decodeCredentials accepts the descriptor as raw JSON or base64 of it.
func decodeCredentials(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return []byte(s), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return nil, ErrInvalidCredentials
	}
	return decoded, nil
}

// Get returns a valid token, exchanging a fresh JWT assertion when needed.
func (t *accessToken) Get(ctx context.Context, providerName string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token.Valid() {
		return t.token.AccessToken, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, t.client)
	tok, err := t.conf.TokenSource(ctx).Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			perr := provider.FromStatus(providerName, rerr.Response.StatusCode, rerr.Body)
			perr.Message = "failed to get access token: " + perr.Message
			perr.Err = err
			if perr.Code != provider.CodeQuota {
				perr.Code = provider.CodeAuth
			}
			return "", perr
		}
		return "", provider.Wrap(providerName, provider.CodeAuth, "failed to get access token", err)
	}

	t.token = tok
	return tok.AccessToken, nil
}
