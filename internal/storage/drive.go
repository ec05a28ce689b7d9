package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"founders-crawler/pkg/models"
)

type serviceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
}

// LoadServiceAccountJSON returns the service account key from envJSON, or
// from the file at path when envJSON is empty.
func LoadServiceAccountJSON(envJSON, path string) ([]byte, error) {
	data := []byte(envJSON)
	source := "GOOGLE_SERVICE_ACCOUNT_KEY"

	if envJSON == "" {
		var err error
		data, err = os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_KEY unset and %s missing", ErrNoCredentials, path)
		}
		if err != nil {
			return nil, err
		}
		source = path
	}

	var sa serviceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("parse credentials from %s: %w", source, err)
	}
	if sa.ClientEmail == "" {
		return nil, fmt.Errorf("%w: %s has no client_email", ErrNoCredentials, source)
	}

	slog.Debug("loaded service account", "source", source, "email", sa.ClientEmail)
	return data, nil
}

// DriveUploader creates files in Google Drive, optionally inside a folder.
type DriveUploader struct {
	srv      *drive.Service
	folderID string
}

func NewDriveUploader(ctx context.Context, folderID string, opts ...option.ClientOption) (*DriveUploader, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive client: %w", err)
	}
	return &DriveUploader{srv: srv, folderID: folderID}, nil
}

// NewDriveUploaderFromJSON authenticates with a service account key.
func NewDriveUploaderFromJSON(ctx context.Context, credentials []byte, folderID string) (*DriveUploader, error) {
	return NewDriveUploader(ctx, folderID,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(drive.DriveFileScope),
	)
}

func (d *DriveUploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (models.UploadResult, error) {
	meta := &drive.File{Name: name}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}

	file, err := d.srv.Files.Create(meta).
		Media(r, googleapi.ContentType(contentType)).
		Fields("id", "name", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return models.UploadResult{}, err
	}

	return models.UploadResult{ID: file.Id, Name: file.Name, Link: file.WebViewLink}, nil
}
