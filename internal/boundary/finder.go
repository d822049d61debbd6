// Package boundary locates word and line ranges around a seed range.
//
// Word expansion runs in four steps:
//
//  1. Trim whitespace from the seed, trailing side first, so an all-whitespace
//     seed collapses toward its start.
//  2. Expand outward to the nearest word-boundary character on each side, or
//     to the edge of the buffer if there is none.
//  3. If that is empty, retry from the nearest non-whitespace character using
//     whitespace alone as the boundary. The upstream character is preferred
//     only when it is adjacent and the downstream one is strictly farther.
//  4. If that is still empty and the seed was not, return the seed unchanged.
//
// Scans step over composed character sequences, never into them.
package boundary

import (
	"time"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/cachemanager"
	"github.com/zjrosen/splice/internal/grapheme"
	"github.com/zjrosen/splice/internal/log"
	"github.com/zjrosen/splice/internal/textrange"
)

// DefaultCacheTTL is how long a cluster table stays cached when no other TTL
// is configured.
const DefaultCacheTTL = time.Minute

var defaultFinder = NewFinder(DefaultCacheTTL)

// WordRange expands seed to its word range using the default finder.
func WordRange(buf buffer.Buffer, seed textrange.Range) (textrange.Range, error) {
	return defaultFinder.WordRange(buf, seed)
}

// LineRange returns the line range containing seed using the default finder.
func LineRange(buf buffer.Buffer, seed textrange.Range) (textrange.Range, error) {
	return defaultFinder.LineRange(buf, seed)
}

// Finder runs boundary searches. Cluster tables are cached per buffer content
// so repeated lookups on an unchanged buffer do not re-segment it.
// A Finder is safe for concurrent use.
type Finder struct {
	tables *cachemanager.ReadThroughCache[string, *grapheme.Table, string]
	ttl    time.Duration
}

// NewFinder creates a finder caching cluster tables for ttl.
// A ttl of zero or less disables caching.
func NewFinder(ttl time.Duration) *Finder {
	manager := cachemanager.NewInMemoryCacheManager[string, *grapheme.Table](
		"cluster-tables", ttl, cachemanager.DefaultCleanupInterval)

	return &Finder{
		tables: cachemanager.NewReadThroughCache[string, *grapheme.Table, string](manager, segment, ttl <= 0),
		ttl:    ttl,
	}
}

func segment(text string) (*grapheme.Table, error) {
	return grapheme.Segment(text), nil
}

// LineRange returns the smallest newline-delimited span containing seed.
func (f *Finder) LineRange(buf buffer.Buffer, seed textrange.Range) (textrange.Range, error) {
	r, err := buf.LineRange(seed)
	if err != nil {
		return textrange.Range{}, err
	}
	log.Debug(log.CatBoundary, "Line range", "seed", seed, "result", r)
	return r, nil
}

// WordRange expands seed to the word range around it.
func (f *Finder) WordRange(buf buffer.Buffer, seed textrange.Range) (textrange.Range, error) {
	full := buf.Range()
	text, err := buf.Content(full)
	if err != nil {
		return textrange.Range{}, err
	}

	table, err := f.tables.GetWithRefresh(text, text, f.ttl)
	if err != nil {
		return textrange.Range{}, err
	}
	s := scanner{table: table, base: full.Location}

	start, end, err := s.indices(seed, full)
	if err != nil {
		return textrange.Range{}, err
	}

	// 1. trim
	for end > start && Whitespace(table.At(end-1)) {
		end--
	}
	for start < end && Whitespace(table.At(start)) {
		start++
	}

	// 2. expand to word boundaries
	start, end = s.expand(start, end, WordBoundary)

	// 3. retry from the nearest non-whitespace character
	if start == end {
		if i, ok := s.nearestNonWhitespace(start); ok {
			start, end = s.expand(i, i+1, Whitespace)
		}
	}

	result := s.rangeOf(start, end)

	// 4. fall back to the seed
	if result.IsEmpty() && !seed.IsEmpty() {
		result = seed
	}

	log.Debug(log.CatBoundary, "Word range", "seed", seed, "result", result)
	return result, nil
}

// scanner works in cluster indices over a table whose offsets are relative
// to base.
type scanner struct {
	table *grapheme.Table
	base  int
}

// indices converts seed to a half-open cluster index interval.
func (s scanner) indices(seed, full textrange.Range) (start, end int, err error) {
	if !full.Contains(seed) {
		return 0, 0, buffer.NewOutOfRange(seed, full)
	}
	for _, offset := range []int{seed.Location, seed.EndLocation()} {
		rel := offset - s.base
		if !s.table.IsBoundary(rel) {
			c, _ := s.table.ClusterAt(rel)
			return 0, 0, &buffer.SplitsCharacterError{
				Offset:    offset,
				Character: textrange.New(c.Offset+s.base, c.Length),
			}
		}
	}
	return s.table.IndexContaining(seed.Location - s.base),
		s.table.IndexContaining(seed.EndLocation() - s.base), nil
}

// expand grows [start, end) until the neighbouring cluster on each side is
// in class, or the edge of the text is reached.
func (s scanner) expand(start, end int, class Class) (int, int) {
	for start > 0 && !class(s.table.At(start-1)) {
		start--
	}
	for end < s.table.Len() && !class(s.table.At(end)) {
		end++
	}
	return start, end
}

// nearestNonWhitespace finds the non-whitespace cluster closest to the caret
// before cluster index at.
func (s scanner) nearestNonWhitespace(at int) (int, bool) {
	caret := s.offsetOf(at)

	up, upFound := -1, false
	for i := at - 1; i >= 0; i-- {
		if !Whitespace(s.table.At(i)) {
			up, upFound = i, true
			break
		}
	}

	down, downFound := -1, false
	for i := at; i < s.table.Len(); i++ {
		if !Whitespace(s.table.At(i)) {
			down, downFound = i, true
			break
		}
	}

	switch {
	case upFound && downFound:
		upDistance := caret - s.table.At(up).EndOffset()
		downDistance := s.table.At(down).Offset - caret
		if upDistance == 0 && downDistance > upDistance {
			return up, true
		}
		return down, true
	case downFound:
		return down, true
	case upFound:
		return up, true
	default:
		return 0, false
	}
}

// offsetOf returns the relative UTF-16 offset where cluster index i starts.
func (s scanner) offsetOf(i int) int {
	if i >= s.table.Len() {
		return s.table.UTF16Length()
	}
	return s.table.At(i).Offset
}

func (s scanner) rangeOf(start, end int) textrange.Range {
	return textrange.Between(s.offsetOf(start)+s.base, s.offsetOf(end)+s.base)
}
