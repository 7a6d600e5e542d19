// Package pipeline turns fetched WordPress posts into geocoded places.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pilgrimage-cli/internal/model"
	"github.com/sells-group/pilgrimage-cli/internal/progress"
	"github.com/sells-group/pilgrimage-cli/pkg/geocode"
	"github.com/sells-group/pilgrimage-cli/pkg/wordpress"
)

// Summary counts the outcome of a run. Every fetched post lands in exactly
// one of Written, NotFound or ServiceErrors.
type Summary struct {
	Fetched       int
	Written       int
	NotFound      int
	ServiceErrors int
}

// Skipped is the number of posts dropped for lack of coordinates.
func (s Summary) Skipped() int { return s.NotFound + s.ServiceErrors }

// Pipeline geocodes posts one at a time, in fetch order.
type Pipeline struct {
	geocoder geocode.Client
	progress progress.Reporter
	log      *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgress sets the per-post progress reporter.
func WithProgress(r progress.Reporter) Option {
	return func(p *Pipeline) {
		p.progress = r
	}
}

// WithLogger sets the logger (defaults to zap.L()).
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// New creates a Pipeline backed by the given geocoder.
func New(gc geocode.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		geocoder: gc,
		progress: progress.Nop(),
		log:      zap.L(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run geocodes every post and returns the resolved places in input order.
// Unresolved posts are counted and skipped; only context cancellation
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, posts []wordpress.Post) ([]model.Place, Summary, error) {
	summary := Summary{Fetched: len(posts)}
	places := make([]model.Place, 0, len(posts))
	defer p.progress.Finish()

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return nil, summary, eris.Wrap(err, "pipeline: run cancelled")
		}

		place, result := p.resolve(ctx, post)
		p.progress.Step(place.Title)

		switch result.Status {
		case geocode.StatusResolved:
			places = append(places, place)
		case geocode.StatusServiceError:
			summary.ServiceErrors++
			p.log.Warn("pipeline: geocode failed, skipping",
				zap.Int("post_id", post.ID),
				zap.String("title", place.Title),
				zap.String("pref", place.Pref),
				zap.Error(result.Err),
			)
		default:
			summary.NotFound++
			p.log.Debug("pipeline: no coordinates, skipping",
				zap.Int("post_id", post.ID),
				zap.String("title", place.Title),
				zap.String("pref", place.Pref),
			)
		}
	}

	summary.Written = len(places)
	return places, summary, nil
}
