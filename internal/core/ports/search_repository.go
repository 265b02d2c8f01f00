package ports

import (
	"context"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// SearchRecordRepository persists the append-only resolution history.
// Records are never mutated or deleted; Insert assigns each record its
// monotonically increasing Seq.
type SearchRecordRepository interface {
	Insert(ctx context.Context, record *domain.SearchRecord) (*domain.SearchRecord, error)
	// List returns one page of records ordered by Seq descending (most
	// recent first) together with the total record count. page is 1-based.
	List(ctx context.Context, page, pageSize int) ([]*domain.SearchRecord, int64, error)
}
