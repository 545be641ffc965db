package mzml

import "github.com/openms-go/mscore/internal/errs"

// Lookup returns the byte offset of the spectrum with the given native
// id, letting a random-access reader seek directly to it instead of
// scanning the whole file (spec.md §4.7).
func (idx *Index) Lookup(nativeID string) (int64, bool) {
	for _, o := range idx.SpectrumOffsets {
		if o.IDRef == nativeID {
			return o.Offset, true
		}
	}
	for _, o := range idx.ChromatogramOffsets {
		if o.IDRef == nativeID {
			return o.Offset, true
		}
	}
	return 0, false
}

// SpectrumIDs returns the native ids in index order.
func (idx *Index) SpectrumIDs() []string {
	ids := make([]string, len(idx.SpectrumOffsets))
	for i, o := range idx.SpectrumOffsets {
		ids[i] = o.IDRef
	}
	return ids
}

// ChromatogramIDs returns the native ids in index order.
func (idx *Index) ChromatogramIDs() []string {
	ids := make([]string, len(idx.ChromatogramOffsets))
	for i, o := range idx.ChromatogramOffsets {
		ids[i] = o.IDRef
	}
	return ids
}

// Validate reports an IO error if the index is missing required
// offsets for the declared counts, the consistency check a
// random-access reader should run before trusting an index list.
func (idx *Index) Validate(wantSpectra, wantChromatograms int) error {
	if len(idx.SpectrumOffsets) != wantSpectra {
		return errs.New(errs.IO, "mzML index: spectrum offset count does not match spectrumList count")
	}
	if len(idx.ChromatogramOffsets) != wantChromatograms {
		return errs.New(errs.IO, "mzML index: chromatogram offset count does not match chromatogramList count")
	}
	return nil
}
