// internal/domain/proof/service.go
package proof

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lootportal/lootportal-api/internal/config"
)

var (
	// ErrFileTooLarge rejects screenshots over the configured limit
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
	// ErrUnsupportedFormat rejects anything that is not an image upload
	ErrUnsupportedFormat = errors.New("file format is not supported")
)

// StoredImage describes a saved payment screenshot
type StoredImage struct {
	OriginalName string `json:"original_name"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// Service stores and releases payment screenshots on local disk
type Service struct {
	config *config.Config
}

// NewService creates a new proof service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// Store validates and saves an uploaded screenshot under the proofs
// directory with a unique filename
func (s *Service) Store(file multipart.File, header *multipart.FileHeader) (*StoredImage, error) {
	if err := s.validate(header); err != nil {
		return nil, err
	}

	filename := s.uniqueFilename(header.Filename)
	relativePath := filepath.Join("proofs", filename)
	fullPath := filepath.Join(s.config.Storage.LocalPath, relativePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredImage{
		OriginalName: header.Filename,
		Filename:     filename,
		Path:         relativePath,
		URL:          s.fileURL(relativePath),
		Size:         header.Size,
		MimeType:     s.mimeType(header.Filename),
	}, nil
}

// Remove deletes a stored screenshot. A missing file is not an error,
// the screenshot may already have been cleaned up.
func (s *Service) Remove(path string) error {
	if path == "" {
		return nil
	}
	fullPath := filepath.Join(s.config.Storage.LocalPath, path)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Service) validate(header *multipart.FileHeader) error {
	if header.Size > s.config.Upload.MaxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, header.Size, s.config.Upload.MaxSize)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
}

func (s *Service) uniqueFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s%s", uuid.New().String(), ext)
}

func (s *Service) fileURL(relativePath string) string {
	urlPath := filepath.ToSlash(relativePath)
	if s.config.Storage.CDNBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.Storage.CDNBaseURL, "/"), urlPath)
	}
	return fmt.Sprintf("%s/uploads/%s", strings.TrimRight(s.config.App.BaseURL, "/"), urlPath)
}

func (s *Service) mimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
