package request

import (
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/domain"
)

// MaxNumRecords caps the page size of a paginated search.
const MaxNumRecords = 50

// Pagination is a validated page window.
type Pagination struct {
	offset     int
	numRecords int
}

// NewPagination validates a page window: offset >= 0, 0 <= numRecords <= MaxNumRecords.
func NewPagination(offset, numRecords int) (Pagination, error) {
	if offset < 0 {
		return Pagination{}, fmt.Errorf("%w: offset must be >= 0", domain.ErrInvalidRequest)
	}
	if numRecords < 0 {
		return Pagination{}, fmt.Errorf("%w: numRecords must be >= 0", domain.ErrInvalidRequest)
	}
	if numRecords > MaxNumRecords {
		return Pagination{}, fmt.Errorf("%w: numRecords must be <= %d", domain.ErrInvalidRequest, MaxNumRecords)
	}
	return Pagination{offset: offset, numRecords: numRecords}, nil
}

// Offset returns the index of the first record.
func (p Pagination) Offset() int { return p.offset }

// NumRecords returns the page size.
func (p Pagination) NumRecords() int { return p.numRecords }
