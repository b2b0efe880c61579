package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProofStore uploads proof files to the object store over its REST API
// and hands back public URLs. Paths are namespaced by creator id,
// campaign id and a nanosecond timestamp so concurrent uploads never
// collide.
type ProofStore struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewProofStore(baseURL, serviceKey, bucket string, log *zap.Logger) *ProofStore {
	return &ProofStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ObjectPath builds the bucket-relative path for a proof file.
func ObjectPath(creatorID, campaignID uuid.UUID, fileName string, now time.Time) string {
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s/%d.%s", creatorID, campaignID, now.UnixNano(), ext)
}

// Upload stores the file and returns its public URL.
func (s *ProofStore) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	if s.baseURL == "" {
		return "", fmt.Errorf("proof storage is not configured")
	}

	url := fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage returned %d: %s", resp.StatusCode, string(body))
	}

	return s.PublicURL(objectPath), nil
}

// PublicURL returns the unauthenticated read URL for an object.
func (s *ProofStore) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}
