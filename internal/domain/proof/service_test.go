// internal/domain/proof/service_test.go
package proof

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootportal/lootportal-api/internal/config"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(&config.Config{
		App: config.AppConfig{BaseURL: "http://localhost:8080"},
		Upload: config.UploadConfig{
			MaxSize:           1024,
			AllowedExtensions: []string{"jpg", "jpeg", "png", "webp"},
		},
		Storage: config.StorageConfig{LocalPath: t.TempDir()},
	})
}

// openUpload writes content to a temp file and returns it as an upload pair
func openUpload(t *testing.T, name string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	return f, &multipart.FileHeader{Filename: name, Size: int64(len(content))}
}

func TestService_Store(t *testing.T) {
	svc := testService(t)
	file, header := openUpload(t, "esewa-receipt.png", []byte("png-bytes"))

	stored, err := svc.Store(file, header)
	require.NoError(t, err)

	assert.Equal(t, "esewa-receipt.png", stored.OriginalName)
	assert.NotEqual(t, "esewa-receipt.png", stored.Filename)
	assert.Equal(t, ".png", filepath.Ext(stored.Filename))
	assert.Equal(t, "image/png", stored.MimeType)
	assert.Equal(t, int64(9), stored.Size)
	assert.Contains(t, stored.URL, "/uploads/proofs/")

	onDisk := filepath.Join(svc.config.Storage.LocalPath, stored.Path)
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestService_StoreRejectsOversizedFile(t *testing.T) {
	svc := testService(t)
	file, header := openUpload(t, "big.png", []byte("x"))
	header.Size = 2048

	_, err := svc.Store(file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestService_StoreRejectsNonImage(t *testing.T) {
	svc := testService(t)
	file, header := openUpload(t, "receipt.pdf", []byte("%PDF"))

	_, err := svc.Store(file, header)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestService_UniqueFilenamesForSameOriginal(t *testing.T) {
	svc := testService(t)

	file1, header1 := openUpload(t, "shot.jpg", []byte("one"))
	file2, header2 := openUpload(t, "shot.jpg", []byte("two"))

	first, err := svc.Store(file1, header1)
	require.NoError(t, err)
	second, err := svc.Store(file2, header2)
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename)
}

func TestService_Remove(t *testing.T) {
	svc := testService(t)
	file, header := openUpload(t, "shot.jpg", []byte("one"))

	stored, err := svc.Store(file, header)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(stored.Path))
	_, statErr := os.Stat(filepath.Join(svc.config.Storage.LocalPath, stored.Path))
	assert.True(t, os.IsNotExist(statErr))

	// Removing again is a no-op
	assert.NoError(t, svc.Remove(stored.Path))
	assert.NoError(t, svc.Remove(""))
}
