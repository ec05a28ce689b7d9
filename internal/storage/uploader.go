package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"founders-crawler/internal/config"
	"founders-crawler/pkg/models"
)

// ErrNoCredentials means the remote store has no usable credentials.
var ErrNoCredentials = errors.New("no upload credentials")

const csvContentType = "text/csv"

// Uploader stores a named blob remotely.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (models.UploadResult, error)
}

// RemoteName is the timestamped object name for a run finished at now.
func RemoteName(now time.Time) string {
	return "yc_founders_" + now.Format("2006-01-02_15-04-05") + ".csv"
}

// UploadFile sends the local CSV at path under its timestamped remote name.
func UploadFile(ctx context.Context, up Uploader, path string, now time.Time) (models.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.UploadResult{}, err
	}
	defer f.Close()

	name := RemoteName(now)
	res, err := up.Upload(ctx, name, csvContentType, f)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("upload %s: %w", name, err)
	}

	slog.Info("uploaded file", "name", res.Name, "id", res.ID, "link", res.Link)
	return res, nil
}

// NewUploader builds the uploader selected by UPLOAD_BACKEND. It returns
// nil, nil when uploads are disabled.
func NewUploader(ctx context.Context, cfg *config.Config) (Uploader, error) {
	switch cfg.UploadBackend {
	case config.UploadNone:
		return nil, nil
	case config.UploadSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, fmt.Errorf("%w: SUPABASE_URL and SUPABASE_KEY are required", ErrNoCredentials)
		}
		return NewSupabaseUploader(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket), nil
	default:
		creds, err := LoadServiceAccountJSON(cfg.GoogleServiceAccountKey, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, err
		}
		up, err := NewDriveUploaderFromJSON(ctx, creds, cfg.DriveFolderID)
		if err != nil {
			return nil, err
		}
		return up, nil
	}
}
