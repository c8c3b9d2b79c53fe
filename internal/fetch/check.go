package fetch

import (
	"context"

	"github.com/jonathan/prompt-library/internal/prompts"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is how many links are probed at once.
const DefaultConcurrency = 4

// LinkResult is the check outcome for the demo link of one prompt file.
type LinkResult struct {
	File     string
	Title    string
	DemoLink string
	Platform Platform
	LinkStatus
}

// Checker probes the demo links of a set of prompt files.
type Checker struct {
	Options     *Options
	Concurrency int
	Logger      zerolog.Logger
}

// NewChecker creates a checker with default options.
func NewChecker(logger zerolog.Logger) *Checker {
	return &Checker{
		Options:     DefaultOptions(),
		Concurrency: DefaultConcurrency,
		Logger:      logger,
	}
}

// CheckFile loads a prompt and checks its demo link. It returns false when
// the file cannot be loaded or has no demo link.
func (c *Checker) CheckFile(ctx context.Context, path string) (LinkResult, bool) {
	prompt, err := prompts.Load(path)
	if err != nil {
		c.Logger.Warn().Err(err).Str("file", path).Msg("skipping prompt")
		return LinkResult{}, false
	}
	if prompt.DemoLink == "" {
		c.Logger.Debug().Str("file", path).Msg("no demo link")
		return LinkResult{}, false
	}

	status := CheckLink(ctx, prompt.DemoLink, c.Options)
	c.Logger.Debug().
		Str("file", path).
		Str("url", prompt.DemoLink).
		Bool("reachable", status.Reachable).
		Int("status", status.StatusCode).
		Msg("link checked")

	return LinkResult{
		File:       path,
		Title:      prompt.TitleOrDefault(),
		DemoLink:   prompt.DemoLink,
		Platform:   DetectPlatform(prompt.DemoLink),
		LinkStatus: status,
	}, true
}

// CheckAll checks every file concurrently, at most Concurrency at a time, and
// returns one entry per input file in input order.
func (c *Checker) CheckAll(ctx context.Context, files []string) ([]CheckedFile, error) {
	checked := make([]CheckedFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, ok := c.CheckFile(gctx, file)
			checked[i] = CheckedFile{Path: file, Result: result, Checked: ok}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return checked, nil
}

// CheckedFile records whether a file's link was checked and the outcome.
type CheckedFile struct {
	Path    string
	Result  LinkResult
	Checked bool
}

// Results returns the link results of the checked files, preserving order.
func Results(checked []CheckedFile) []LinkResult {
	results := make([]LinkResult, 0, len(checked))
	for _, c := range checked {
		if c.Checked {
			results = append(results, c.Result)
		}
	}
	return results
}

// BrokenCount returns how many results are not reachable.
func BrokenCount(results []LinkResult) int {
	broken := 0
	for _, r := range results {
		if !r.Reachable {
			broken++
		}
	}
	return broken
}
