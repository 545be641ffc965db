package msmodel

import "github.com/openms-go/mscore/internal/errs"

// ExperimentType classifies what a ConsensusMap's columns represent
// (spec.md §3 ConsensusMap "experiment type").
type ExperimentType int

const (
	ExperimentLabelFree ExperimentType = iota
	ExperimentLabeled
	ExperimentInducedIonMobility
)

// SplitMode controls how Split distributes peptide/protein IDs that
// are not specific to a single sub-feature (spec.md §3 ConsensusMap
// "split(mode)").
type SplitMode int

const (
	SplitDiscard SplitMode = iota
	SplitCopyAll
	SplitCopyFirst
)

// ColumnHeader describes one input map a ConsensusMap draws from.
type ColumnHeader struct {
	Filename    string
	Label       string
	Size        int
	UniqueID    uint64
	Description string
}

// FeatureHandle references one constituent feature of a ConsensusFeature,
// by the index of the input map it came from plus its own identity.
type FeatureHandle struct {
	MapIndex  int
	FeatureID uint64
	Position  Point
	Intensity float64
	Charge    int
}

// ConsensusFeature groups FeatureHandles from different input maps that
// were matched as the same underlying entity.
type ConsensusFeature struct {
	ID         uint64
	Position   Point
	Intensity  float64
	Charge     int
	Handles    []FeatureHandle
	PeptideIDs []string
	Meta       MetaMap
}

// AddHandle appends h to the group.
func (cf *ConsensusFeature) AddHandle(h FeatureHandle) {
	cf.Handles = append(cf.Handles, h)
}

// ConsensusMap is a table of ConsensusFeature rows over a fixed set of
// input-map columns, spec.md §3.
type ConsensusMap struct {
	ColumnHeaders map[int]ColumnHeader
	Features      []ConsensusFeature
	ExperimentTyp ExperimentType
}

// NewConsensusMap returns an empty ConsensusMap.
func NewConsensusMap() *ConsensusMap {
	return &ConsensusMap{ColumnHeaders: make(map[int]ColumnHeader)}
}

// AppendRows appends other's features to this map's rows, leaving
// column headers untouched (spec.md §3 "appendRows").
func (m *ConsensusMap) AppendRows(other *ConsensusMap) {
	m.Features = append(m.Features, other.Features...)
}

// AppendColumns merges other's column headers into this map, renumbering
// other's map indices (in both its headers and its features' handles)
// to avoid colliding with this map's existing indices, then appends its
// features (spec.md §3 "appendColumns").
func (m *ConsensusMap) AppendColumns(other *ConsensusMap) {
	offset := 0
	for idx := range m.ColumnHeaders {
		if idx+1 > offset {
			offset = idx + 1
		}
	}
	remap := make(map[int]int, len(other.ColumnHeaders))
	for idx, hdr := range other.ColumnHeaders {
		newIdx := idx + offset
		remap[idx] = newIdx
		m.ColumnHeaders[newIdx] = hdr
	}
	for _, feat := range other.Features {
		nf := feat
		nf.Handles = append([]FeatureHandle(nil), feat.Handles...)
		for i, h := range nf.Handles {
			nf.Handles[i].MapIndex = remap[h.MapIndex]
		}
		m.Features = append(m.Features, nf)
	}
}

// Split redistributes each ConsensusFeature's shared PeptideIDs down to
// the per-handle level is out of model scope here; Split instead
// governs how a feature's PeptideIDs propagate when the feature itself
// is partitioned by mode (spec.md §3 "split(mode): {DISCARD, COPY_ALL,
// COPY_FIRST}").
func Split(ids []string, mode SplitMode, n int) [][]string {
	out := make([][]string, n)
	if n == 0 {
		return out
	}
	switch mode {
	case SplitDiscard:
		// out already all-nil
	case SplitCopyAll:
		for i := range out {
			out[i] = append([]string(nil), ids...)
		}
	case SplitCopyFirst:
		out[0] = append([]string(nil), ids...)
	}
	return out
}

// IsMapConsistent reports whether every handle in every feature
// references a column index present in the map's headers, and that no
// two column headers share the same (Filename, Label) pair (spec.md
// §4.2/§8: "isMapConsistent(m) ⇒ ∀ f ∈ m, ∀ h ∈ f.handles: h.map_index
// ∈ keys(m.column_headers) ... header (filename, label) pairs are
// unique").
func (m *ConsensusMap) IsMapConsistent() bool {
	for _, f := range m.Features {
		for _, h := range f.Handles {
			if _, ok := m.ColumnHeaders[h.MapIndex]; !ok {
				return false
			}
		}
	}
	return !m.hasDuplicateHeaderKey()
}

// hasDuplicateHeaderKey reports whether two distinct column headers
// share the same (Filename, Label) pair.
func (m *ConsensusMap) hasDuplicateHeaderKey() bool {
	type key struct{ filename, label string }
	seen := make(map[key]struct{}, len(m.ColumnHeaders))
	for _, hdr := range m.ColumnHeaders {
		k := key{hdr.Filename, hdr.Label}
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}

// ValidateConsistency returns an error describing the first
// inconsistency found, or nil.
func (m *ConsensusMap) ValidateConsistency() error {
	for _, f := range m.Features {
		for _, h := range f.Handles {
			if _, ok := m.ColumnHeaders[h.MapIndex]; !ok {
				return errs.New(errs.Postcondition, "consensus feature references unknown map index")
			}
		}
	}
	if m.hasDuplicateHeaderKey() {
		return errs.New(errs.Postcondition, "consensus map has duplicate (filename, label) column headers")
	}
	return nil
}
