// Package filesystem persists alignment files under the run's output directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// FileExtension is appended to the pair name to form the file name.
const FileExtension = ".xml"

// Ensure AlignmentFileStore implements the interface.
var _ driven.AlignmentFileStore = (*AlignmentFileStore)(nil)

// AlignmentFileStore writes {dir}/{pair_name}.xml.
// Writes go to a temporary file in the same directory and are renamed into
// place, so readers never observe a partial file.
type AlignmentFileStore struct {
	dir      string
	permFile os.FileMode
	permDir  os.FileMode
}

// NewAlignmentFileStore creates a store rooted at dir. The directory is
// created on first write.
func NewAlignmentFileStore(dir string) (*AlignmentFileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: output directory is empty", domain.ErrInvalidInput)
	}
	return &AlignmentFileStore{
		dir:      dir,
		permFile: 0o644,
		permDir:  0o755,
	}, nil
}

// Path returns where the file for pairName lives.
func (s *AlignmentFileStore) Path(pairName domain.PairName) string {
	return filepath.Join(s.dir, string(pairName)+FileExtension)
}

// Write stores data for pairName, replacing any previous file.
func (s *AlignmentFileStore) Write(ctx context.Context, pairName domain.PairName, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !pairName.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPairName, pairName)
	}
	if err := os.MkdirAll(s.dir, s.permDir); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return s.writeAtomic(s.Path(pairName), data)
}

// Read returns the stored file for pairName.
func (s *AlignmentFileStore) Read(ctx context.Context, pairName domain.PairName) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !pairName.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPairName, pairName)
	}
	data, err := os.ReadFile(s.Path(pairName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, pairName)
		}
		return nil, fmt.Errorf("reading %s: %w", pairName, err)
	}
	return data, nil
}

func (s *AlignmentFileStore) writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, s.permFile)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(dest), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing %s: %w", filepath.Base(dest), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", filepath.Base(dest), err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", filepath.Base(dest), err)
	}
	return nil
}
