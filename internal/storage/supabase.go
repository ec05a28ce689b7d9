package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"founders-crawler/pkg/models"
)

// SupabaseUploader stores files in a Supabase Storage bucket.
type SupabaseUploader struct {
	client  *resty.Client
	baseURL string
	bucket  string
}

type supabaseObject struct {
	Key string `json:"Key"`
	ID  string `json:"Id"`
}

type supabaseError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func NewSupabaseUploader(baseURL, key, bucket string) *SupabaseUploader {
	baseURL = strings.TrimRight(baseURL, "/")

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetAuthToken(key)
	client.SetHeader("apikey", key)
	client.SetTimeout(time.Minute)

	return &SupabaseUploader{client: client, baseURL: baseURL, bucket: bucket}
}

func (s *SupabaseUploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (models.UploadResult, error) {
	objectPath := url.PathEscape(s.bucket) + "/" + url.PathEscape(name)

	var obj supabaseObject
	var apiErr supabaseError
	res, err := s.client.R().
		SetContext(ctx).
		SetHeader("content-type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(r).
		SetResult(&obj).
		SetError(&apiErr).
		Post("/storage/v1/object/" + objectPath)
	if err != nil {
		return models.UploadResult{}, err
	}
	if res.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = res.Status()
		}
		return models.UploadResult{}, fmt.Errorf("supabase storage: %s", msg)
	}

	id := obj.ID
	if id == "" {
		id = obj.Key
	}
	return models.UploadResult{
		ID:   id,
		Name: name,
		Link: s.baseURL + "/storage/v1/object/public/" + objectPath,
	}, nil
}
