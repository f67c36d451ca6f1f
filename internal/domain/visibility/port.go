package visibility

import "context"

// RunRepository port for persisting and querying analysis runs
type RunRepository interface {
	Save(ctx context.Context, r *Run) error
	Get(ctx context.Context, id RunID) (*Run, error)
	Paginate(ctx context.Context, page, pageSize int) ([]*Run, error)
}

// ReportArchive stores an analysis document and returns where it lives.
type ReportArchive interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}

// WebLookup resolves a domain to public metadata (best effort).
type WebLookup interface {
	Lookup(ctx context.Context, domain string) (DomainInfo, error)
}

// TrendSource serves canned visibility records by domain. Default is used for
// domains without a record.
type TrendSource interface {
	Domain(name string) (DomainRecord, bool)
	Default() DomainRecord
}
