// Package paramtree implements the hierarchical, typed parameter store
// spec.md §4.4 describes: sections of colon-path-addressed entries,
// each with a restriction (interval for numeric types, enum for
// strings, extension set for files), tags, and a description, with
// lossless XML round-tripping.
package paramtree

import (
	"sort"

	"github.com/openms-go/mscore/internal/errs"
)

// ValueKind names the type an Entry's Value holds.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindString
	KindIntList
	KindFloatList
	KindStringList
)

// Restriction narrows the legal values an Entry may take: an inclusive
// [Min, Max] for numeric kinds (a bound applies only when its HasMin or
// HasMax flag is set; otherwise that side is unbounded), or an explicit allow-list for
// string kinds (also doubling as a file-extension allow-list when the
// entry is tagged "input file"/"output file").
type Restriction struct {
	HasMin      bool
	Min         float64
	HasMax      bool
	Max         float64
	ValidString []string
}

// Entry is one leaf value in the tree, addressed by a colon-joined path
// (spec.md §4.4, grounded on ParamXMLHandler's ':'-joined path_ prefix).
type Entry struct {
	Name        string
	Kind        ValueKind
	IntValue    int64
	FloatValue  float64
	StringValue string
	IntList     []int64
	FloatList   []float64
	StringList  []string
	Description string
	Tags        []string
	Restriction Restriction
}

func (e Entry) hasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// section holds one NODE's own description, keyed in Tree by its colon
// path; child entries and subsections live in Tree's own maps.
type section struct {
	description string
}

// Tree is the parameter store: a flat map of colon-path entries plus a
// flat map of colon-path section descriptions, matching the source's
// own flattened-path storage (Param does not nest maps either).
type Tree struct {
	entries  map[string]Entry
	sections map[string]section
	order    []string // insertion order of entry paths, for stable XML/iteration output
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{entries: make(map[string]Entry), sections: make(map[string]section)}
}

// AddSection records a description for a section path (spec.md §4.4
// addSection; path has no trailing colon).
func (t *Tree) AddSection(path, description string) {
	t.sections[path] = section{description: description}
}

// SectionDescription returns the description recorded for path, if any.
func (t *Tree) SectionDescription(path string) (string, bool) {
	s, ok := t.sections[path]
	return s.description, ok
}

func (t *Tree) set(path string, e Entry) {
	if _, exists := t.entries[path]; !exists {
		t.order = append(t.order, path)
	}
	e.Name = path
	t.entries[path] = e
}

// SetInt stores an int entry at path.
func (t *Tree) SetInt(path string, value int64, description string, tags ...string) {
	t.set(path, Entry{Kind: KindInt, IntValue: value, Description: description, Tags: tags})
}

// SetFloat stores a float entry at path.
func (t *Tree) SetFloat(path string, value float64, description string, tags ...string) {
	t.set(path, Entry{Kind: KindFloat, FloatValue: value, Description: description, Tags: tags})
}

// SetString stores a string entry at path.
func (t *Tree) SetString(path string, value string, description string, tags ...string) {
	t.set(path, Entry{Kind: KindString, StringValue: value, Description: description, Tags: tags})
}

// SetIntList stores an int-list entry at path.
func (t *Tree) SetIntList(path string, value []int64, description string, tags ...string) {
	t.set(path, Entry{Kind: KindIntList, IntList: append([]int64(nil), value...), Description: description, Tags: tags})
}

// SetFloatList stores a float-list entry at path.
func (t *Tree) SetFloatList(path string, value []float64, description string, tags ...string) {
	t.set(path, Entry{Kind: KindFloatList, FloatList: append([]float64(nil), value...), Description: description, Tags: tags})
}

// SetStringList stores a string-list entry at path.
func (t *Tree) SetStringList(path string, value []string, description string, tags ...string) {
	t.set(path, Entry{Kind: KindStringList, StringList: append([]string(nil), value...), Description: description, Tags: tags})
}

// Get returns the entry at path.
func (t *Tree) Get(path string) (Entry, error) {
	e, ok := t.entries[path]
	if !ok {
		return Entry{}, errs.New(errs.ElementNotFound, "no parameter at path "+path)
	}
	return e, nil
}

// Exists reports whether path names a stored entry.
func (t *Tree) Exists(path string) bool {
	_, ok := t.entries[path]
	return ok
}

// SetMinInt sets the entry's minimum integer restriction, validating
// the stored value still satisfies it (spec.md §4.4 invariant: a
// restriction that would invalidate the current value is rejected).
func (t *Tree) SetMinInt(path string, min int64) error {
	e, err := t.Get(path)
	if err != nil {
		return err
	}
	if e.Kind == KindInt && e.IntValue < min {
		return errs.New(errs.InvalidParameter, "current value is below new minimum for "+path)
	}
	e.Restriction.HasMin = true
	e.Restriction.Min = float64(min)
	t.entries[path] = e
	return nil
}

// SetMaxInt sets the entry's maximum integer restriction.
func (t *Tree) SetMaxInt(path string, max int64) error {
	e, err := t.Get(path)
	if err != nil {
		return err
	}
	if e.Kind == KindInt && e.IntValue > max {
		return errs.New(errs.InvalidParameter, "current value is above new maximum for "+path)
	}
	e.Restriction.HasMax = true
	e.Restriction.Max = float64(max)
	t.entries[path] = e
	return nil
}

// SetMinFloat sets the entry's minimum float restriction.
func (t *Tree) SetMinFloat(path string, min float64) error {
	e, err := t.Get(path)
	if err != nil {
		return err
	}
	if e.Kind == KindFloat && e.FloatValue < min {
		return errs.New(errs.InvalidParameter, "current value is below new minimum for "+path)
	}
	e.Restriction.HasMin = true
	e.Restriction.Min = min
	t.entries[path] = e
	return nil
}

// SetMaxFloat sets the entry's maximum float restriction.
func (t *Tree) SetMaxFloat(path string, max float64) error {
	e, err := t.Get(path)
	if err != nil {
		return err
	}
	if e.Kind == KindFloat && e.FloatValue > max {
		return errs.New(errs.InvalidParameter, "current value is above new maximum for "+path)
	}
	e.Restriction.HasMax = true
	e.Restriction.Max = max
	t.entries[path] = e
	return nil
}

// SetValidStrings sets the entry's allow-list restriction.
func (t *Tree) SetValidStrings(path string, valid []string) error {
	e, err := t.Get(path)
	if err != nil {
		return err
	}
	e.Restriction.ValidString = append([]string(nil), valid...)
	t.entries[path] = e
	return nil
}

// Paths returns every entry path in insertion order.
func (t *Tree) Paths() []string {
	return append([]string(nil), t.order...)
}

// SortedPaths returns every entry path, lexicographically sorted.
func (t *Tree) SortedPaths() []string {
	out := append([]string(nil), t.order...)
	sort.Strings(out)
	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + ":" + name
}
