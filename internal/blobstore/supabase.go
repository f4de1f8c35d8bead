package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Store is the attachment storage consumed by the timesheet handlers.
type Store interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, name string) error
}

// SupabaseClient talks to the Supabase Storage object API for a single bucket.
type SupabaseClient struct {
	BaseURL    string
	ServiceKey string
	Bucket     string
	HTTP       *http.Client
}

func NewSupabaseClient(baseURL, serviceKey, bucket string) *SupabaseClient {
	return &SupabaseClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ServiceKey: serviceKey,
		Bucket:     bucket,
		HTTP:       &http.Client{Timeout: 30 * time.Second},
	}
}

// ObjectName prefixes the original file name with a millisecond timestamp so
// concurrent uploads of identically named files cannot collide in the bucket.
func ObjectName(original string) string {
	return fmt.Sprintf("timesheet_%d_%s", time.Now().UnixMilli(), path.Base(original))
}

func (s *SupabaseClient) objectURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, s.Bucket, url.PathEscape(name))
}

// PublicURL returns the public retrieval URL for a stored object.
func (s *SupabaseClient) PublicURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.BaseURL, s.Bucket, url.PathEscape(name))
}

func (s *SupabaseClient) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(name), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload %s: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return s.PublicURL(name), nil
}

func (s *SupabaseClient) Remove(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(name), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("remove %s: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
