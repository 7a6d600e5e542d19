package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pilgrimage-cli/internal/config"
	"github.com/sells-group/pilgrimage-cli/internal/fetcher"
	"github.com/sells-group/pilgrimage-cli/internal/output"
	"github.com/sells-group/pilgrimage-cli/internal/pipeline"
	"github.com/sells-group/pilgrimage-cli/internal/progress"
	"github.com/sells-group/pilgrimage-cli/pkg/geocode"
	"github.com/sells-group/pilgrimage-cli/pkg/wordpress"
)

// runScrape fetches, geocodes and writes the dataset. Nothing is written
// unless every page was fetched.
func runScrape(ctx context.Context, out io.Writer, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("run_id", uuid.NewString()))
	start := time.Now()
	timeout := time.Duration(cfg.HTTP.TimeoutSecs) * time.Second

	_, _ = fmt.Fprintln(out, "Fetching place posts ...")
	wp := wordpress.NewClient(cfg.WordPress.BaseURL, fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: cfg.WordPress.UserAgent,
		Timeout:   timeout,
	}))
	posts, err := wp.FetchAll(ctx, cfg.WordPress.PerPage)
	if err != nil {
		return eris.Wrap(err, "scrape: fetch posts")
	}
	_, _ = fmt.Fprintf(out, "  -> %d records\n", len(posts))

	gc := geocode.NewClient(cfg.Google.MapsKey,
		geocode.WithBaseURL(cfg.Google.BaseURL),
		geocode.WithLanguage(cfg.Google.Language),
		geocode.WithCountryHint(cfg.Google.CountryHint),
		geocode.WithTimeout(timeout),
	)
	p := pipeline.New(gc,
		pipeline.WithProgress(progress.New(out, len(posts), "Geocoding")),
		pipeline.WithLogger(log),
	)
	places, summary, err := p.Run(ctx, posts)
	if err != nil {
		return eris.Wrap(err, "scrape: geocode")
	}

	if err := output.WriteJSON(cfg.Output.Path, places); err != nil {
		return eris.Wrap(err, "scrape: write output")
	}
	if cfg.Output.GeoJSONPath != "" {
		if err := output.WriteGeoJSON(cfg.Output.GeoJSONPath, places); err != nil {
			return eris.Wrap(err, "scrape: write geojson")
		}
	}

	log.Info("scrape complete",
		zap.Int("fetched", summary.Fetched),
		zap.Int("written", summary.Written),
		zap.Int("not_found", summary.NotFound),
		zap.Int("service_errors", summary.ServiceErrors),
		zap.Duration("elapsed", time.Since(start)),
	)

	_, _ = fmt.Fprintf(out, "Wrote %d spots -> %s\n", summary.Written, cfg.Output.Path)
	_, _ = fmt.Fprintln(out, renderSummary(summary, cfg.Output))
	return nil
}

func renderSummary(s pipeline.Summary, out config.OutputConfig) string {
	rows := [][]string{
		{"Fetched", fmt.Sprint(s.Fetched)},
		{"Written", fmt.Sprint(s.Written)},
		{"Skipped (no match)", fmt.Sprint(s.NotFound)},
		{"Skipped (service error)", fmt.Sprint(s.ServiceErrors)},
		{"Output", out.Path},
	}
	if out.GeoJSONPath != "" {
		rows = append(rows, []string{"GeoJSON", out.GeoJSONPath})
	}
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
