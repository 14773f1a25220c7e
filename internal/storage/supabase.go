package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// SupabaseStore uploads into a public Supabase Storage bucket.
type SupabaseStore struct {
	http    *resty.Client
	baseURL string
	bucket  string
}

func NewSupabaseStore(supabaseURL, serviceKey, bucket string, timeout time.Duration) *SupabaseStore {
	baseURL := strings.TrimRight(supabaseURL, "/") + "/storage/v1"
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(serviceKey).
		SetHeader("apikey", serviceKey).
		SetTimeout(timeout)

	return &SupabaseStore{http: client, baseURL: baseURL, bucket: bucket}
}

func (s *SupabaseStore) Upload(ctx context.Context, obj Object) (string, error) {
	key := ObjectKey(obj.Filename)

	body, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", errors.Wrap(err, "read upload body")
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetBody(body).
		SetError(&apiErr).
		Post("/object/" + url.PathEscape(s.bucket) + "/" + url.PathEscape(key))
	if err != nil {
		return "", errors.Wrap(err, "upload to supabase storage")
	}
	if resp.IsError() {
		return "", errors.Errorf("upload to supabase storage: status %d: %s %s", resp.StatusCode(), apiErr.Error, apiErr.Message)
	}

	return s.PublicURL(key), nil
}

// PublicURL is the unauthenticated download URL of key in the bucket.
func (s *SupabaseStore) PublicURL(key string) string {
	return s.baseURL + "/object/public/" + url.PathEscape(s.bucket) + "/" + url.PathEscape(key)
}
