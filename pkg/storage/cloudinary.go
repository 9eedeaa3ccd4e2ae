package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type cloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore creates an ObjectStore backed by Cloudinary.
func NewCloudinaryStore(cfg Config) (ObjectStore, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	folder := cfg.Folder
	if folder == "" {
		folder = "omni-saude"
	}

	return &cloudinaryStore{client: client, folder: folder}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, r io.Reader, name string) (*Object, error) {
	publicID := buildPublicID(name)

	resp, err := s.client.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: publicID,
		Folder:   s.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	return &Object{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Size:     int64(resp.Bytes),
	}, nil
}

func (s *cloudinaryStore) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", publicID, err)
	}
	return nil
}

// buildPublicID derives a unique public ID from the original file name.
func buildPublicID(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "file"
	}
	return fmt.Sprintf("%s-%s", base, uuid.New().String()[:8])
}
