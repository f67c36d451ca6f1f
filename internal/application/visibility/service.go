package visibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/geo-gap-compass/internal/application"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/citations"
	domain "github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

// Run kinds recorded in the history.
const (
	KindBrandMissing  = "brand_missing"
	KindBrandPresence = "brand_presence"
	KindCompetitors   = "competitors"
	KindGapHeatmap    = "gap_heatmap"
	KindDomains       = "domains"
	KindPromptTest    = "prompt_test"
	KindSingle        = "single"
)

const persistTimeout = 5 * time.Second

// Runner executes prompts; implemented by the ai Pipeline.
type Runner interface {
	Run(ctx context.Context, prompts []ai.PromptRequest, brand, model string) ([]ai.CompletionResult, error)
	RunSingle(ctx context.Context, req ai.PromptRequest, brand, model string) (ai.CompletionResult, error)
	Live() bool
}

// Service implements the visibility use cases. Runs, Archive and Lookup are
// optional; Pipeline and Trends are required.
// Service is safe for concurrent use.
type Service struct {
	Pipeline      Runner
	Runs          domain.RunRepository
	Archive       domain.ReportArchive
	Lookup        domain.WebLookup
	Trends        domain.TrendSource
	Clock         application.Clock
	Log           *zap.Logger
	ReportsPrefix string
	// LookupConcurrency bounds parallel web lookups per request.
	LookupConcurrency int
}

// Record holds where a completed analysis was stored.
type Record struct {
	RunID     string `json:"run_id,omitempty"`
	ReportURL string `json:"report_url,omitempty"`
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// record persists a finished view, best effort. view must embed *Record so the
// stored document carries its own id.
func (s *Service) record(ctx context.Context, kind, brand string, subjects []string, isMock bool, rec *Record, view any) {
	if s.Runs == nil && s.Archive == nil {
		return
	}
	rec.RunID = uuid.NewString()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	log := s.logger().With(zap.String("run_id", rec.RunID), zap.String("kind", kind))

	if s.Archive != nil {
		key := path.Join(s.ReportsPrefix, kind, rec.RunID+".json")
		url, err := s.Archive.PutJSON(ctx, key, view)
		if err != nil {
			log.Warn("archive report failed", zap.Error(err))
		} else {
			rec.ReportURL = url
		}
	}

	if s.Runs != nil {
		doc, err := json.Marshal(view)
		if err != nil {
			log.Warn("encode run failed", zap.Error(err))
			return
		}
		run := &domain.Run{
			ID:        domain.RunID(rec.RunID),
			Kind:      kind,
			Brand:     brand,
			Subjects:  subjects,
			Result:    string(doc),
			IsMock:    isMock,
			CreatedAt: s.now(),
		}
		if err := s.Runs.Save(ctx, run); err != nil {
			log.Warn("save run failed", zap.Error(err))
		}
	}
}

// RunPage is one page of the run history.
type RunPage struct {
	Data     []*domain.Run `json:"data"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// ListRuns returns a page of recorded runs, newest first.
func (s *Service) ListRuns(ctx context.Context, page, pageSize int) (*RunPage, error) {
	if page < 1 {
		page = 1
	}
	out := &RunPage{Data: []*domain.Run{}, Page: page, PageSize: pageSize}
	if s.Runs == nil {
		return out, nil
	}
	runs, err := s.Runs.Paginate(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	out.Data = runs
	return out, nil
}

// GetRun returns a recorded run; sql.ErrNoRows when unknown.
func (s *Service) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	if s.Runs == nil {
		return nil, fmt.Errorf("run history disabled: %w", sql.ErrNoRows)
	}
	run, err := s.Runs.Get(ctx, domain.RunID(id))
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

func requireBrand(brand string) (string, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return "", ai.Invalid("brand is required")
	}
	return brand, nil
}

func totalCitations(results []ai.CompletionResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Citations)
	}
	return n
}

func allCitations(results []ai.CompletionResult) []string {
	out := []string{}
	for _, r := range results {
		out = append(out, r.Citations...)
	}
	return out
}

// brandInCitations matches the brand as written, hyphenated or squashed.
func brandInCitations(urls []string, brand string) bool {
	words := strings.Fields(brand)
	return citations.Mentions(urls, brand) ||
		citations.Mentions(urls, strings.Join(words, "-")) ||
		citations.Mentions(urls, strings.Join(words, ""))
}
