// Package extract turns a parsed duplication report into per-pair facts:
// the duplicated line count plus the prefix-stripped path and total line
// count of the first two files of every entry.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/garagon/duprank/internal/linecount"
	"github.com/garagon/duprank/internal/types"
)

// DefaultPrefixMarker is stripped, together with everything before it, from
// every reported path. It matches reports produced by running CPD three
// directories below the project checkout and is environment-specific:
// override it when the detector was run from elsewhere.
const DefaultPrefixMarker = "../../../"

// Options configures an extraction run.
type Options struct {
	// Root is the directory stripped paths are resolved against.
	Root string
	// PrefixMarker defaults to DefaultPrefixMarker.
	PrefixMarker string
	// Workers > 1 counts lines concurrently. Output order is unaffected.
	Workers int
	// Counter is shared across the run. If nil, a fresh one is created.
	Counter *linecount.Counter
	// ProgressFn is called after each file is counted. May be nil.
	ProgressFn func(done, total int)
}

// StripPrefix splits path on the first occurrence of marker and returns
// everything after it.
func StripPrefix(path, marker string) (string, error) {
	if marker == "" {
		return "", fmt.Errorf("%w: empty prefix marker", types.ErrMalformedEntry)
	}
	_, rest, ok := strings.Cut(path, marker)
	if !ok {
		return "", fmt.Errorf("%w: prefix marker %q not found", types.ErrMalformedEntry, marker)
	}
	return rest, nil
}

// pending is an entry that passed structural checks and awaits line counts.
type pending struct {
	fact types.Fact
	abs  [2]string
}

// Extract produces one Fact per duplication, in report order. Every entry
// is checked structurally before any file is read, so a malformed report
// fails without touching the filesystem. The first failing entry (lowest
// index) determines the returned error.
func Extract(ctx context.Context, rep *types.Report, opts Options) ([]types.Fact, error) {
	marker := opts.PrefixMarker
	if marker == "" {
		marker = DefaultPrefixMarker
	}
	counter := opts.Counter
	if counter == nil {
		counter = linecount.NewCounter(0)
	}

	entries := make([]pending, len(rep.Duplications))
	for i, d := range rep.Duplications {
		p, err := prepare(i, d, marker, opts.Root)
		if err != nil {
			return nil, err
		}
		entries[i] = p
	}

	var (
		total = 2 * len(entries)
		done  atomic.Int64
	)
	count := func(i int) error {
		e := &entries[i]
		for side := 0; side < 2; side++ {
			n, err := counter.Count(e.abs[side])
			if err != nil {
				return &types.EntryError{Index: i, Path: e.abs[side], Err: err}
			}
			if side == 0 {
				e.fact.File1TotalLines = n
			} else {
				e.fact.File2TotalLines = n
			}
			if opts.ProgressFn != nil {
				opts.ProgressFn(int(done.Add(1)), total)
			}
		}
		return nil
	}

	if opts.Workers <= 1 {
		for i := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := count(i); err != nil {
				return nil, err
			}
		}
	} else {
		errs := make([]error, len(entries))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := range entries {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				errs[i] = count(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	facts := make([]types.Fact, len(entries))
	for i := range entries {
		facts[i] = entries[i].fact
	}
	return facts, nil
}

func prepare(i int, d types.Duplication, marker, root string) (pending, error) {
	if len(d.Files) < 2 {
		return pending{}, &types.EntryError{
			Index: i,
			Err:   fmt.Errorf("%w: %d file(s), need at least 2", types.ErrMalformedEntry, len(d.Files)),
		}
	}

	var p pending
	var rel [2]string
	for side := 0; side < 2; side++ {
		stripped, err := StripPrefix(d.Files[side].Path, marker)
		if err != nil {
			return pending{}, &types.EntryError{Index: i, Path: d.Files[side].Path, Err: err}
		}
		local := filepath.FromSlash(stripped)
		if !filepath.IsLocal(local) {
			return pending{}, &types.EntryError{
				Index: i,
				Path:  d.Files[side].Path,
				Err:   fmt.Errorf("%w: path %q is not inside the root", types.ErrMalformedEntry, stripped),
			}
		}
		rel[side] = stripped
		p.abs[side] = filepath.Join(root, local)
	}

	lines, err := parseLines(d.Lines)
	if err != nil {
		return pending{}, &types.EntryError{Index: i, Err: err}
	}

	p.fact = types.Fact{
		Index:           i,
		DuplicatedLines: lines,
		Tokens:          d.Tokens,
		File1Path:       rel[0],
		File1Line:       d.Files[0].Line,
		File1EndLine:    d.Files[0].EndLine,
		File2Path:       rel[1],
		File2Line:       d.Files[1].Line,
		File2EndLine:    d.Files[1].EndLine,
		CodeFragment:    d.CodeFragment,
	}
	return p, nil
}

func parseLines(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: missing duplicated line count", types.ErrMalformedEntry)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: duplicated line count %q is not an integer", types.ErrMalformedEntry, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative duplicated line count %d", types.ErrMalformedEntry, n)
	}
	return n, nil
}
