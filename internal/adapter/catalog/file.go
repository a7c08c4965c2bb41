package catalog

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogSource = (*FileSource)(nil)

// FileSource reads the catalog document from a file.
type FileSource struct {
	fs   afero.Fs
	path string
}

func NewFileSource(fsys afero.Fs, path string) FileSource {
	return FileSource{fsys, path}
}

func (s FileSource) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "FileSource.FetchCatalog"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	ps, err := decodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}
