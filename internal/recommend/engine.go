package recommend

import (
	"fmt"
	"time"

	"github.com/Veraticus/matchme/internal/model"
)

// Request is one recommendation query.
type Request struct {
	SkinTone        model.SkinTone
	Undertone       model.Undertone
	CurrentProducts []model.CurrentProductRef
}

// Validate ensures the request names a known profile.
func (r *Request) Validate() error {
	if !r.SkinTone.Valid() {
		return fmt.Errorf("invalid skin tone %q", r.SkinTone)
	}
	if !r.Undertone.Valid() {
		return fmt.Errorf("invalid undertone %q", r.Undertone)
	}
	for i := range r.CurrentProducts {
		if err := r.CurrentProducts[i].Validate(); err != nil {
			return fmt.Errorf("current product %d: %w", i, err)
		}
	}
	return nil
}

// Engine assembles recommendation sets from a fixed catalog snapshot. It
// holds no mutable state and is safe for concurrent use.
type Engine struct {
	now     func() time.Time
	catalog []model.Product
	ranker  Ranker
}

// Option configures an Engine.
type Option func(*Engine)

// WithPerCategory sets how many products each category keeps.
func WithPerCategory(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.ranker.PerCategory = n
		}
	}
}

// WithWeights overrides the scoring weights.
func WithWeights(w ScoreWeights) Option {
	return func(e *Engine) {
		e.ranker.Weights = w
	}
}

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine over a copy of the catalog.
func NewEngine(catalog []model.Product, opts ...Option) *Engine {
	snapshot := make([]model.Product, len(catalog))
	copy(snapshot, catalog)

	e := &Engine{
		catalog: snapshot,
		ranker:  NewRanker(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CatalogSize returns the number of products the engine ranks over.
func (e *Engine) CatalogSize() int {
	return len(e.catalog)
}

// Recommend builds a fresh recommendation set for the request.
func (e *Engine) Recommend(req Request) (model.RecommendationSet, error) {
	if err := req.Validate(); err != nil {
		return model.RecommendationSet{}, fmt.Errorf("invalid recommendation request: %w", err)
	}

	recs := e.ranker.Rank(e.catalog, req.SkinTone, req.Undertone, req.CurrentProducts)

	return model.RecommendationSet{
		GeneratedAt:     e.now(),
		Highlight:       SelectHighlight(recs, req.CurrentProducts),
		Recommendations: recs,
		SkinTone:        req.SkinTone,
		Undertone:       req.Undertone,
		MatchingShades:  MatchingShades(req.SkinTone, req.Undertone),
		Insights:        GenerateInsights(req.SkinTone, req.Undertone, req.CurrentProducts),
	}, nil
}
