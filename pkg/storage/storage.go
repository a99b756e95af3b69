package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrInvalidName is returned for asset names that would escape the store.
var ErrInvalidName = errors.New("invalid asset name")

// Upload is a client supplied file.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// AssetStore keeps uploaded files in a single flat directory.
type AssetStore struct {
	fs afero.Fs
}

// NewAssetStore creates a store on top of fs. fs is treated as the uploads
// directory itself.
func NewAssetStore(fs afero.Fs) *AssetStore {
	return &AssetStore{fs: fs}
}

// NewDiskAssetStore creates a store rooted at dir, creating dir if needed.
func NewDiskAssetStore(dir string) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", dir, err)
	}
	return NewAssetStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// UniqueName turns an original filename into "<stem><uuid>.<ext>", where stem
// is the base name up to its first dot and ext the text after its last dot.
func UniqueName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	stem, _, _ := strings.Cut(base, ".")
	name := stem + uuid.New().String()
	if i := strings.LastIndex(base, "."); i >= 0 && i < len(base)-1 {
		name += base[i:]
	}
	return name
}

// Save writes upload under a freshly generated unique name and returns that name.
func (s *AssetStore) Save(upload Upload) (string, error) {
	if upload.Content == nil {
		return "", fmt.Errorf("upload %s has no content", upload.Filename)
	}
	name := UniqueName(upload.Filename)
	if err := afero.WriteReader(s.fs, name, upload.Content); err != nil {
		// Drop whatever part of the file made it to disk.
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("failed to store asset %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes the named asset.
func (s *AssetStore) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.fs.Remove(name); err != nil {
		return fmt.Errorf("failed to remove asset %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the named asset is present.
func (s *AssetStore) Exists(name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	return afero.Exists(s.fs, name)
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
