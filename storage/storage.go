package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"api/config"

	"github.com/google/uuid"
)

// Upload areas, one subdirectory per owning record type
const (
	AreaCompetitions = "competitions"
	AreaSubmissions  = "submissions"
	AreaExhibitions  = "exhibitions"
	AreaUsers        = "user"
)

// webPrefix is the URL prefix under which stored images are served
const webPrefix = "/images/"

// FileStore persists uploaded images below a root directory and addresses
// them by their public web path (/images/<area>/<name>).
type FileStore struct {
	Root string
}

// Store is the process-wide file store, set by Init
var Store *FileStore

// Init creates the upload directory tree and sets the package store
func Init(root string) error {
	for _, area := range []string{AreaCompetitions, AreaSubmissions, AreaExhibitions, AreaUsers} {
		if err := os.MkdirAll(filepath.Join(root, "images", area), 0o755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	Store = &FileStore{Root: root}
	return nil
}

// Save validates and stores an uploaded image in the given area, returning
// its web path.
func (s *FileStore) Save(fh *multipart.FileHeader, area string) (string, error) {
	if fh.Size > config.DefaultUploadConfig.MaxFileSize {
		return "", fmt.Errorf("file exceeds the %d byte limit", config.DefaultUploadConfig.MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	allowed := false
	for _, e := range config.DefaultUploadConfig.AllowedExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("only image files are allowed (jpeg, jpg, png)")
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.Root, "images", area, name)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return webPrefix + area + "/" + name, nil
}

// Delete removes a stored image by web path. Cleanup is best-effort: a
// missing or undeletable file is logged and never fails the caller.
func (s *FileStore) Delete(webPath string) {
	if !strings.HasPrefix(webPath, webPrefix) {
		return
	}
	path := s.Filepath(webPath)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to delete stored file %s: %v", webPath, err)
	}
}

// Exists reports whether a stored image is present on disk
func (s *FileStore) Exists(webPath string) bool {
	if !strings.HasPrefix(webPath, webPrefix) {
		return false
	}
	_, err := os.Stat(s.Filepath(webPath))
	return err == nil
}

// Filepath maps a web path to its location on disk
func (s *FileStore) Filepath(webPath string) string {
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(webPath, "/")))
}
