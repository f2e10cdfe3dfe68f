package identityapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/google/uuid"
)

const userEndpoint = "/auth/v1/user"

// RemoteVerifier asks the identity provider who owns a token.
type RemoteVerifier struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewRemoteVerifier(baseURL, apiKey string, timeout time.Duration) *RemoteVerifier {
	return &RemoteVerifier{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

type remoteUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*account.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.BaseURL+userEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if v.APIKey != "" {
		req.Header.Set("apikey", v.APIKey)
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("identity provider: %w", err), domain.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrTokenInvalid
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Join(
			fmt.Errorf("identity provider responded with %d", resp.StatusCode),
			domain.ErrBackendUnavailable,
		)
	}

	var u remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, errors.Join(fmt.Errorf("decode provider user: %w", err), domain.ErrBackendUnavailable)
	}
	if _, err := uuid.Parse(u.ID); err != nil {
		return nil, ErrTokenInvalid
	}

	return &account.Session{
		ExternalID: account.ExternalID(u.ID),
		Email:      strings.ToLower(u.Email),
		Name:       u.UserMetadata.displayName(),
	}, nil
}
