package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Environment variables understood by NewServiceAccountProvider.
const (
	// EnvCredentialsFile points to a service account JSON key file.
	EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"

	// EnvServiceAccountJSON holds the service account JSON key content
	// directly, for deployments where mounting a file is inconvenient.
	EnvServiceAccountJSON = "GOOGLE_SERVICE_ACCOUNT_JSON"
)

// TokenSourceProvider supplies OAuth2 token sources for Google APIs.
// This abstraction keeps raw credentials out of the calendar client and
// lets tests substitute a static token.
type TokenSourceProvider interface {
	// TokenSource returns a token source scoped for Calendar access.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// ServiceAccountProvider builds token sources from a Google service account
// key, read from a file path or from inline JSON. A file path takes
// precedence when both are set.
type ServiceAccountProvider struct {
	// CredentialsFile is the path to a service account JSON key file.
	// Defaults to $GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsFile string

	// CredentialsJSON is the service account JSON key content.
	// Defaults to $GOOGLE_SERVICE_ACCOUNT_JSON.
	CredentialsJSON string
}

// NewServiceAccountProvider creates a provider configured from the
// environment.
func NewServiceAccountProvider() *ServiceAccountProvider {
	return &ServiceAccountProvider{
		CredentialsFile: os.Getenv(EnvCredentialsFile),
		CredentialsJSON: os.Getenv(EnvServiceAccountJSON),
	}
}

// TokenSource implements TokenSourceProvider.
func (p *ServiceAccountProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	data, err := p.credentialsJSON()
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Google credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// HasCredentials reports whether the provider has any credential material to
// work with. It does not validate the material.
func (p *ServiceAccountProvider) HasCredentials() bool {
	return p.CredentialsFile != "" || p.CredentialsJSON != ""
}

func (p *ServiceAccountProvider) credentialsJSON() ([]byte, error) {
	if p.CredentialsFile != "" {
		data, err := os.ReadFile(p.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file %s: %w", p.CredentialsFile, err)
		}
		return data, nil
	}
	if p.CredentialsJSON != "" {
		return []byte(p.CredentialsJSON), nil
	}
	return nil, fmt.Errorf("missing Google credentials: set %s (path) or %s (content)", EnvCredentialsFile, EnvServiceAccountJSON)
}

// StaticTokenSourceProvider wraps a fixed token source. Used by tests.
type StaticTokenSourceProvider struct {
	Source oauth2.TokenSource
}

// TokenSource implements TokenSourceProvider.
func (p *StaticTokenSourceProvider) TokenSource(_ context.Context) (oauth2.TokenSource, error) {
	if p.Source == nil {
		return nil, fmt.Errorf("no token source configured")
	}
	return p.Source, nil
}
