package paramtree

import "github.com/openms-go/mscore/internal/errs"

// DiffKind classifies one change Update applied or reported.
type DiffKind int

const (
	DiffAdded DiffKind = iota
	DiffChanged
	DiffUnknown // absent from this tree, or present with a different value kind
)

// DiffEntry records one path's change.
type DiffEntry struct {
	Path string
	Kind DiffKind
}

// Diff is the set of changes Update produced, in addNew's insertion order.
type Diff struct {
	Entries []DiffEntry
}

func (d *Diff) add(path string, kind DiffKind) {
	d.Entries = append(d.Entries, DiffEntry{Path: path, Kind: kind})
}

// Update merges addNew's entries into t. Values present in both trees
// with the same kind are overwritten and recorded as DiffChanged; a path
// present in both with a different kind is recorded as DiffUnknown and
// not applied; values only in addNew are recorded as DiffAdded and
// inserted. When failOnUnknown is true, any addNew path this tree
// doesn't already define is instead recorded as DiffUnknown, and any
// DiffUnknown makes Update return an error after processing every entry
// (spec.md's dropped-feature supplement: update(old, add_new,
// fail_on_unknown) returning a Diff).
func (t *Tree) Update(addNew *Tree, failOnUnknown bool) (*Diff, error) {
	diff := &Diff{}
	var unknown []string

	for _, path := range addNew.order {
		incoming := addNew.entries[path]
		if existing, ok := t.entries[path]; ok {
			if !sameKind(existing, incoming) {
				diff.add(path, DiffUnknown)
				unknown = append(unknown, path)
				continue
			}
			diff.add(path, DiffChanged)
			t.entries[path] = incoming
			continue
		}
		if failOnUnknown {
			diff.add(path, DiffUnknown)
			unknown = append(unknown, path)
			continue
		}
		diff.add(path, DiffAdded)
		t.set(path, incoming)
	}
	for path, sec := range addNew.sections {
		if _, ok := t.sections[path]; !ok {
			t.sections[path] = sec
		}
	}

	if failOnUnknown && len(unknown) > 0 {
		return diff, errs.New(errs.InvalidParameter, "update: unknown parameter path(s) rejected")
	}
	return diff, nil
}

func sameKind(a, b Entry) bool { return a.Kind == b.Kind }
