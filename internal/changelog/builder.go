package changelog

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the git processes one Build runs at a time.
var maxConcurrentFetches = runtime.NumCPU() * 2

// Builder partitions commit history into per-tag release windows.
type Builder struct {
	tags    *TagLister
	fetcher *RangeFetcher
}

// NewBuilder creates a Builder that reads history through runner.
func NewBuilder(runner Runner) *Builder {
	return &Builder{
		tags:    NewTagLister(runner),
		fetcher: NewRangeFetcher(runner),
	}
}

// Build is a shorthand for NewBuilder(runner).Build.
func Build(ctx context.Context, runner Runner, startTag, finalTag string, opts Options) (*Changelog, error) {
	return NewBuilder(runner).Build(ctx, startTag, finalTag, opts)
}

// window pairs an output tag with the range whose commits it receives.
type window struct {
	tag *Tag
	rng Range
}

// Build lists tags, selects the release windows requested by startTag,
// finalTag and opts, and fetches every window concurrently.
//
// startTag is exclusive: selection stops when it is reached. finalTag is
// inclusive: tags newer than it are skipped. When finalTag is empty a head
// tag named opts.TitleTag collects the commits after the newest tag. With
// neither boundary, only the head and the newest tag are returned.
// opts.ListAll selects every tag regardless of boundaries.
//
// Tags keep selection order whatever order the fetches finish in. If any
// fetch fails, Build fails and returns no partial result.
func (b *Builder) Build(ctx context.Context, startTag, finalTag string, opts Options) (*Changelog, error) {
	tags, err := b.tags.List(ctx)
	if err != nil {
		return nil, err
	}

	windows := selectWindows(tags, startTag, finalTag, opts)
	logDebug("[changelog] selected %d of %d tags (start=%q, final=%q, all=%v)",
		len(windows), len(tags), startTag, finalTag, opts.ListAll)

	results, err := b.fetchWindows(ctx, windows, opts)
	if err != nil {
		return nil, err
	}

	return assemble(windows, results), nil
}

// fetchWindows runs one fetch per window and returns the commits by window index.
// Each goroutine writes only its own slot, so no locking is needed.
func (b *Builder) fetchWindows(ctx context.Context, windows []window, opts Options) ([][]Commit, error) {
	results := make([][]Commit, len(windows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, w := range windows {
		g.Go(func() error {
			commits, err := b.fetcher.Fetch(ctx, w.rng, opts)
			if err != nil {
				return err
			}
			results[i] = commits
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// selectWindows applies the boundary rules to tags, which are newest first.
func selectWindows(tags []*Tag, startTag, finalTag string, opts Options) []window {
	var windows []window

	if finalTag == "" {
		head := &Tag{Name: opts.titleTag(), CommitSHAs: []string{}}
		rng := Range{All: true}
		if len(tags) > 0 {
			rng = Range{Start: tags[0].Name}
		}
		windows = append(windows, window{tag: head, rng: rng})
	}

	finalFound := false
	for i, tag := range tags {
		if !opts.ListAll {
			if finalTag != "" && !finalFound {
				if tag.Name != finalTag {
					continue
				}
				finalFound = true
			}
			if startTag != "" && tag.Name == startTag {
				break
			}
		}

		rng := Range{End: tag.Name}
		if i+1 < len(tags) {
			rng.Start = tags[i+1].Name
		}
		windows = append(windows, window{tag: tag, rng: rng})

		// Default view: unreleased commits plus the latest release only.
		if !opts.ListAll && startTag == "" && finalTag == "" {
			break
		}
	}

	return windows
}

// assemble merges fetch results in window order. A commit returned by two
// windows is kept once in the map; the later window wins.
func assemble(windows []window, results [][]Commit) *Changelog {
	cl := &Changelog{
		Tags:    make([]*Tag, 0, len(windows)),
		Commits: make(map[string]Commit),
	}

	for i, w := range windows {
		for _, c := range results[i] {
			w.tag.CommitSHAs = append(w.tag.CommitSHAs, c.SHA)
			cl.Commits[c.SHA] = c
		}
		cl.Tags = append(cl.Tags, w.tag)
	}

	return cl
}
