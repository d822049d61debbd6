package grapheme

import "sort"

// Table is a precomputed, ordered list of the clusters of a text.
// It answers "which cluster contains offset X" in O(log n), which the
// backward scans of the boundary finder need.
type Table struct {
	clusters []Cluster
	length   int
}

// Segment splits s into grapheme clusters.
func Segment(s string) *Table {
	t := &Table{}
	iter := NewIterator(s)
	for iter.Next() {
		t.clusters = append(t.clusters, iter.Cluster())
	}
	if n := len(t.clusters); n > 0 {
		t.length = t.clusters[n-1].EndOffset()
	}
	return t
}

// Len returns the number of clusters.
func (t *Table) Len() int {
	return len(t.clusters)
}

// UTF16Length returns the total length in UTF-16 code units.
func (t *Table) UTF16Length() int {
	return t.length
}

// At returns the cluster at index i.
func (t *Table) At(i int) Cluster {
	return t.clusters[i]
}

// IndexContaining returns the index of the cluster that contains offset.
// An offset equal to the text length yields Len(); negative offsets yield -1.
func (t *Table) IndexContaining(offset int) int {
	if offset < 0 {
		return -1
	}
	if offset >= t.length {
		return len(t.clusters)
	}
	return sort.Search(len(t.clusters), func(i int) bool {
		return t.clusters[i].EndOffset() > offset
	})
}

// IsBoundary reports whether offset falls between two clusters (or at either
// end of the text), i.e. whether splitting the text there keeps every cluster
// intact.
func (t *Table) IsBoundary(offset int) bool {
	if offset < 0 || offset > t.length {
		return false
	}
	if offset == t.length {
		return true
	}
	return t.clusters[t.IndexContaining(offset)].Offset == offset
}

// ClusterAt returns the cluster containing offset.
// ok is false if offset is outside [0, UTF16Length()).
func (t *Table) ClusterAt(offset int) (c Cluster, ok bool) {
	i := t.IndexContaining(offset)
	if i < 0 || i >= len(t.clusters) {
		return Cluster{}, false
	}
	return t.clusters[i], true
}
