package schedule

import (
	"context"
	"fmt"
	"time"

	"schedgen/internal/config"
	"schedgen/internal/ics"
	appLog "schedgen/internal/log"
	"schedgen/internal/model"
)

// Fetcher retrieves the raw calendar document behind a feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FeedResult is the outcome of one feed: either its intervals or the reason
// it contributed nothing. A failed feed never aborts the run and never
// affects sibling feeds.
type FeedResult struct {
	URL       string
	Intervals []model.BusyInterval
	Err       error
}

// CollectFeeds fetches and parses every feed in order, sequentially. The
// returned slice has exactly one entry per URL, in input order; failures are
// captured in the entry rather than returned. Progress goes to stdout,
// warnings to stderr.
func CollectFeeds(ctx context.Context, f Fetcher, urls []string, w ics.Window, loc *time.Location) []FeedResult {
	results := make([]FeedResult, 0, len(urls))

	for _, url := range urls {
		fmt.Printf("Fetching: %s\n", ics.TruncateURL(url))

		res := collectOne(ctx, f, url, w, loc)
		if res.Err != nil {
			appLog.Warn("could not fetch feed", "url", ics.TruncateURL(url), "err", res.Err)
		}
		fmt.Printf("  -> %d event(s) found\n", len(res.Intervals))

		results = append(results, res)
	}

	return results
}

func collectOne(ctx context.Context, f Fetcher, url string, w ics.Window, loc *time.Location) FeedResult {
	res := FeedResult{URL: url}

	body, err := f.Fetch(ctx, url)
	if err != nil {
		res.Err = err
		return res
	}

	events, err := ics.ParseFeed(body)
	if err != nil {
		res.Err = err
		return res
	}

	res.Intervals = ics.BusyIntervals(events, w, loc)
	return res
}

// Generate runs one full pipeline pass: compute the fetch window, collect
// every feed, and write the snapshot to outPath. A run cancelled during
// collection writes nothing, so an interrupted pass never replaces a good
// snapshot with one whose feeds all failed.
func Generate(ctx context.Context, cfg *config.Config, f Fetcher, urls []string, outPath string, loc *time.Location) error {
	window := ics.FetchWindow(time.Now(), loc)
	results := CollectFeeds(ctx, f, urls, window, loc)

	if ctx.Err() != nil {
		appLog.Warn("run cancelled, keeping previous snapshot", "path", outPath)
		return nil
	}

	snap := BuildSnapshot(cfg, results, time.Now(), loc)
	if err := Write(outPath, snap); err != nil {
		return err
	}

	fmt.Printf("\n%s written (%d total event(s))\n", outPath, len(snap.Events))
	return nil
}

// BuildSnapshot assembles the output document. Intervals are concatenated
// in feed order with no sorting and no cross-feed merging; overlapping busy
// blocks from different feeds stay separate, since merging is a
// display-layer concern.
func BuildSnapshot(cfg *config.Config, results []FeedResult, now time.Time, loc *time.Location) *model.Snapshot {
	events := make([]model.BusyInterval, 0)
	for _, r := range results {
		events = append(events, r.Intervals...)
	}

	return &model.Snapshot{
		LastUpdated:        now.In(loc),
		Timezone:           cfg.Timezone,
		OwnerName:          cfg.OwnerName,
		WeeklyProjectHours: cfg.WeeklyProjectHours,
		WorkdayStart:       cfg.WorkdayStart,
		WorkdayEnd:         cfg.WorkdayEnd,
		Configured:         len(results) > 0,
		Events:             events,
	}
}
