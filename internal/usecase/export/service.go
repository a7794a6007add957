package export

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/db"
	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog"
	"github.com/kailas-cloud/sitesearch/internal/domain/document"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/logger"
)

// DefaultBatchSize is the number of documents fetched per cursor page.
const DefaultBatchSize = 10000

// Export is a validated export ready to stream.
type Export struct {
	req request.Request
	cat catalog.Catalog
}

// Service streams every match of a request as "<primaryKey JSON>\t<score>" lines.
type Service struct {
	catalogs  CatalogLoader
	pages     Pager
	batchSize int
	streamed  prometheus.Counter
}

// New creates an export service. streamed may be nil.
func New(catalogs CatalogLoader, pages Pager, batchSize int, streamed prometheus.Counter) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{catalogs: catalogs, pages: pages, batchSize: batchSize, streamed: streamed}
}

// Prepare validates the request and loads the catalog. Pagination is ignored.
// Errors here happen before any output is written.
func (s *Service) Prepare(ctx context.Context, params request.Params) (*Export, error) {
	req, err := request.New(params, request.PaginationIgnored)
	if err != nil {
		return nil, err
	}
	cat, err := s.catalogs.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err = cat.Validate(&req); err != nil {
		return nil, err
	}
	return &Export{req: req, cat: cat}, nil
}

// Stream walks the cursor until the backend repeats it, flushing after every
// batch. It returns the number of lines written.
func (s *Service) Stream(ctx context.Context, exp *Export, w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	log := logger.FromContext(ctx)

	var written int64
	cursor := db.CursorStart
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		resp, err := s.pages.ExportPage(ctx, &exp.req, exp.cat, s.batchSize, cursor)
		if err != nil {
			return written, fmt.Errorf("%w: %w", domain.ErrBackendIntegrity, err)
		}

		n, err := writeBatch(bw, resp.Documents)
		written += n
		if s.streamed != nil {
			s.streamed.Add(float64(n))
		}
		if err != nil {
			return written, err
		}
		if err = bw.Flush(); err != nil {
			return written, fmt.Errorf("flush export: %w", err)
		}
		if f, ok := w.(interface{ Flush() }); ok {
			f.Flush()
		}

		if resp.NextCursor == cursor {
			break
		}
		cursor = resp.NextCursor
	}

	log.Debug("export finished", zap.Int64("documents", written))
	return written, nil
}

func writeBatch(w *bufio.Writer, docs []document.Document) (int64, error) {
	var n int64
	for _, d := range docs {
		if document.IsInternalType(d.Type()) {
			continue
		}
		pk, err := d.PrimaryKey()
		if err != nil {
			return n, fmt.Errorf("%w: %w", domain.ErrBackendIntegrity, err)
		}
		line, err := formatLine(pk, d.Score())
		if err != nil {
			return n, err
		}
		if _, err = w.Write(line); err != nil {
			return n, fmt.Errorf("write export line: %w", err)
		}
		n++
	}
	return n, nil
}

// formatLine renders one export line: the primary key as a JSON array, a tab,
// the score and a newline.
func formatLine(pk []string, score float64) ([]byte, error) {
	key, err := json.Marshal(pk)
	if err != nil {
		return nil, fmt.Errorf("encode primary key: %w", err)
	}
	line := make([]byte, 0, len(key)+24)
	line = append(line, key...)
	line = append(line, '\t')
	line = strconv.AppendFloat(line, score, 'f', -1, 64)
	return append(line, '\n'), nil
}
