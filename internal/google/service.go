// Package google builds authenticated Sheets and Drive clients from a
// service-account key and classifies Google API errors.
package google

import (
	"context"
	"fmt"
	"os"
	"strings"

	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Read-only scopes; the pipeline never writes back to either source.
const (
	ScopeSheetsReadOnly = "https://www.googleapis.com/auth/spreadsheets.readonly"
	ScopeDriveReadOnly  = "https://www.googleapis.com/auth/drive.readonly"
)

// CredentialOptions turns a service-account key into client options.
// The key may be the JSON document itself or a path to a file holding it.
func CredentialOptions(ctx context.Context, key string, scopes ...string) ([]option.ClientOption, error) {
	data, err := keyBytes(key)
	if err != nil {
		return nil, err
	}

	conf, err := googleoauth.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	return []option.ClientOption{option.WithTokenSource(conf.TokenSource(ctx))}, nil
}

// NewSheetsService creates a Sheets API client.
func NewSheetsService(ctx context.Context, opts ...option.ClientOption) (*sheets.Service, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return svc, nil
}

// NewDriveService creates a Drive API client.
func NewDriveService(ctx context.Context, opts ...option.ClientOption) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return svc, nil
}

func keyBytes(key string) ([]byte, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, fmt.Errorf("service account key is empty")
	}
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), nil
	}

	data, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key file: %w", err)
	}
	return data, nil
}
