// Package group partitions buffers into named, predicate-defined
// buckets and produces the decorative markers rendered around each
// bucket.
package group

import (
	"fmt"
	"sort"

	"github.com/dshills/buftab/internal/host"
	"github.com/dshills/buftab/internal/style"
)

// Ungrouped is the implicit bucket for buffers matching no predicate.
const Ungrouped = "ungrouped"

// Predicate reports whether a buffer belongs to a group.
type Predicate func(host.Buffer) bool

// Group is one named classification rule.
type Group struct {
	// Name identifies the group. Must not be "ungrouped".
	Name string

	// Priority orders buckets for display. Zero means unset; the
	// group's declaration index is used instead.
	Priority int

	// Icon is an optional glyph shown in the group's label.
	Icon string

	// Highlight optionally overrides tab colors for members. It is
	// overlaid onto the base buffer-state style, so attributes left
	// default keep the ambient value.
	Highlight *style.Style

	// Matches is the membership predicate.
	Matches Predicate
}

// Set is an ordered collection of groups. Declaration order decides
// predicate precedence: a buffer joins the first group that matches.
type Set struct {
	groups []Group
}

// NewSet creates a group set. Declaration order is preserved.
func NewSet(groups ...Group) *Set {
	return &Set{groups: groups}
}

// Groups returns the declared groups in declaration order.
func (s *Set) Groups() []Group {
	if s == nil {
		return nil
	}
	return s.groups
}

// Len returns the number of declared groups.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.groups)
}

// effectivePriority returns the group's display priority: the explicit
// value, or the 1-based declaration index if unset.
func (s *Set) effectivePriority(i int) int {
	if s.groups[i].Priority != 0 {
		return s.groups[i].Priority
	}
	return i + 1
}

// AssignName returns the name of the first group whose predicate
// matches, or Ungrouped.
func (s *Set) AssignName(b host.Buffer) string {
	if s == nil {
		return Ungrouped
	}
	for _, g := range s.groups {
		if g.Matches != nil && g.Matches(b) {
			return g.Name
		}
	}
	return Ungrouped
}

// Membership is the result of partitioning a buffer list: a mapping
// from bucket name to its ordered members, plus the bucket display
// order.
type Membership struct {
	set     *Set
	order   []string // bucket names by display priority, ungrouped last
	buckets map[string][]host.Buffer
	byID    map[host.BufferID]string
}

// Partition assigns every buffer to exactly one bucket. Each buffer
// lands in the first group (declaration order) whose predicate returns
// true, or in the ungrouped bucket. Relative buffer order within every
// bucket matches the input order.
func (s *Set) Partition(bufs []host.Buffer) *Membership {
	m := &Membership{
		set:     s,
		buckets: make(map[string][]host.Buffer),
		byID:    make(map[host.BufferID]string, len(bufs)),
	}

	for _, b := range bufs {
		name := s.AssignName(b)
		m.buckets[name] = append(m.buckets[name], b)
		m.byID[b.ID] = name
	}

	// Bucket display order: declared groups by effective priority
	// (stable on declaration order), then the ungrouped bucket.
	if s != nil {
		idx := make([]int, 0, len(s.groups))
		for i := range s.groups {
			idx = append(idx, i)
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return s.effectivePriority(idx[a]) < s.effectivePriority(idx[b])
		})
		for _, i := range idx {
			m.order = append(m.order, s.groups[i].Name)
		}
	}
	m.order = append(m.order, Ungrouped)

	return m
}

// Buckets returns bucket names in display order, including empty
// declared buckets and the ungrouped bucket.
func (m *Membership) Buckets() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Members returns the ordered members of a bucket.
func (m *Membership) Members(name string) []host.Buffer {
	return m.buckets[name]
}

// GroupOf returns the bucket a buffer was assigned to, or Ungrouped
// for buffers not in the partition.
func (m *Membership) GroupOf(id host.BufferID) string {
	if name, ok := m.byID[id]; ok {
		return name
	}
	return Ungrouped
}

// Count returns the total number of partitioned buffers.
func (m *Membership) Count() int {
	n := 0
	for _, bucket := range m.buckets {
		n += len(bucket)
	}
	return n
}

// ForEach applies action to every buffer currently in the named
// bucket, in list order. There is no rollback: a failure mid-iteration
// leaves prior buffers already acted upon, and the first error is
// returned.
func (m *Membership) ForEach(name string, action func(host.Buffer) error) error {
	bucket, ok := m.buckets[name]
	if !ok {
		return fmt.Errorf("no group named %q", name)
	}
	for _, b := range bucket {
		if err := action(b); err != nil {
			return fmt.Errorf("group %s: buffer %d: %w", name, b.ID, err)
		}
	}
	return nil
}
