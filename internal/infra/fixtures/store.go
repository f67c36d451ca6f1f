// Package fixtures serves the canned demo data used by the mock generator
// and the domain trend views.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
	"github.com/bryanwahyu/geo-gap-compass/internal/logger"
)

const defaultKey = "default"

// DefaultRecord is served when the time series has no "default" entry.
var DefaultRecord = visibility.DomainRecord{Visibility: 50, Trend: []int{45, 47, 49, 50}}

// ObjectReader reads objects from remote storage.
type ObjectReader interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// Source locates the two fixture documents. When Objects is set the files are
// read from object storage under Prefix using the base name of each path.
type Source struct {
	CitationsPath  string
	TimeSeriesPath string
	Prefix         string
	Objects        ObjectReader
}

type Store struct {
	completions map[string]ai.CompletionResult
	trends      map[string]visibility.DomainRecord
}

// Load reads both documents. Any read or parse failure leaves that table
// empty and is logged; it never fails the caller.
func Load(ctx context.Context, src Source, log *zap.Logger) *Store {
	log = logger.OrNop(log)
	s := &Store{
		completions: map[string]ai.CompletionResult{},
		trends:      map[string]visibility.DomainRecord{},
	}
	if src.CitationsPath != "" {
		if err := src.decode(ctx, src.CitationsPath, &s.completions); err != nil {
			log.Warn("citation fixtures unavailable", zap.String("path", src.CitationsPath), zap.Error(err))
			s.completions = map[string]ai.CompletionResult{}
		}
	}
	if src.TimeSeriesPath != "" {
		if err := src.decode(ctx, src.TimeSeriesPath, &s.trends); err != nil {
			log.Warn("time series fixtures unavailable", zap.String("path", src.TimeSeriesPath), zap.Error(err))
			s.trends = map[string]visibility.DomainRecord{}
		}
	}
	log.Info("fixtures loaded",
		zap.Int("completions", len(s.completions)),
		zap.Int("domains", len(s.trends)),
	)
	return s
}

// New builds a store from in-memory tables.
func New(completions map[string]ai.CompletionResult, trends map[string]visibility.DomainRecord) *Store {
	if completions == nil {
		completions = map[string]ai.CompletionResult{}
	}
	if trends == nil {
		trends = map[string]visibility.DomainRecord{}
	}
	return &Store{completions: completions, trends: trends}
}

func (src Source) decode(ctx context.Context, p string, v any) error {
	var (
		data []byte
		err  error
	)
	if src.Objects != nil {
		data, err = src.Objects.GetObject(ctx, path.Join(src.Prefix, filepath.Base(p)))
	} else {
		data, err = os.ReadFile(p)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", p, err)
	}
	return nil
}

// Completion implements mock.Fixtures.
func (s *Store) Completion(key string) (ai.CompletionResult, bool) {
	r, ok := s.completions[key]
	return r, ok
}

// Domain implements visibility.TrendSource.
func (s *Store) Domain(name string) (visibility.DomainRecord, bool) {
	if name == defaultKey {
		return visibility.DomainRecord{}, false
	}
	r, ok := s.trends[name]
	return r, ok
}

func (s *Store) Default() visibility.DomainRecord {
	if r, ok := s.trends[defaultKey]; ok && len(r.Trend) > 0 {
		return r
	}
	return DefaultRecord
}
