package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogSource = (*HTTPSource)(nil)

// HTTPSource fetches the catalog document with a single GET. There is no
// retry: a failed fetch is reported to the caller as is.
type HTTPSource struct {
	client *http.Client
	url    string
}

func NewHTTPSource(url string, timeout time.Duration) HTTPSource {
	return HTTPSource{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (s HTTPSource) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "HTTPSource.FetchCatalog"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrBadStatus, res.Status)
	}

	ps, err := decodeDocument(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}
