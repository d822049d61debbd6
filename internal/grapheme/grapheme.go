// Package grapheme provides grapheme cluster helpers measured in UTF-16 code
// units.
//
// Two-Unit Model:
//
// Buffers address text in UTF-16 code units, while users perceive text as
// grapheme clusters ("composed character sequences"):
//
//  1. Code units: what an Offset counts. "a" = 1, "😀" = 2 (surrogate pair),
//     "🇺🇸" = 4, "👨‍👩‍👧‍👦" = 11.
//
//  2. Clusters: the atomic unit for reading, inserting and scanning. A cluster
//     may consist of several code points (e.g. "e" + combining accent).
//
// Edits must never place an offset inside a cluster. Use Table to
// map offsets to the clusters that contain them.
package grapheme

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// UTF16Length returns the number of UTF-16 code units needed to encode s.
func UTF16Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Count returns the number of grapheme clusters in a string.
// For example: "hello" = 5, "h😀llo" = 5, "👨‍👩‍👧‍👦" = 1.
func Count(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Cluster is one composed character sequence and its position.
type Cluster struct {
	Text   string // The cluster's text
	Offset int    // Start in UTF-16 code units
	Length int    // Length in UTF-16 code units
}

// EndOffset returns the exclusive end of the cluster in UTF-16 code units.
func (c Cluster) EndOffset() int {
	return c.Offset + c.Length
}

// FirstRune returns the base rune of the cluster, or utf8.RuneError for an
// empty cluster. Classification of multi-rune clusters (emoji sequences,
// combining marks) is based on this rune.
func (c Cluster) FirstRune() rune {
	for _, r := range c.Text {
		return r
	}
	return utf8.RuneError
}

// Iterator provides efficient iteration over grapheme clusters.
// Use NewIterator to create an iterator, then call Next() in a loop.
//
// Example:
//
//	iter := grapheme.NewIterator("hi😀")
//	for iter.Next() {
//	    fmt.Printf("%q at %d\n", iter.Cluster().Text, iter.Cluster().Offset)
//	}
type Iterator struct {
	rest    string
	state   int
	cluster Cluster
	offset  int
	index   int
}

// NewIterator creates a new iterator over grapheme clusters in s.
func NewIterator(s string) *Iterator {
	return &Iterator{
		rest:  s,
		state: -1,
		index: -1,
	}
}

// Next advances the iterator to the next grapheme cluster.
// Returns false when there are no more grapheme clusters.
func (it *Iterator) Next() bool {
	if len(it.rest) == 0 {
		return false
	}

	text, rest, _, newState := uniseg.StepString(it.rest, it.state)
	length := UTF16Length(text)

	it.cluster = Cluster{Text: text, Offset: it.offset, Length: length}
	it.offset += length
	it.index++
	it.rest = rest
	it.state = newState
	return true
}

// Cluster returns the current grapheme cluster.
func (it *Iterator) Cluster() Cluster {
	return it.cluster
}

// Index returns the cluster index of the current cluster (0-indexed).
// Returns -1 if Next() has not been called.
func (it *Iterator) Index() int {
	return it.index
}
