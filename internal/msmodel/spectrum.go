package msmodel

import (
	"sort"

	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/rangeutil"
)

// InstrumentSettings carries the per-scan instrument metadata spec.md
// §3 lists alongside MS level/polarity/precursors.
type InstrumentSettings struct {
	ScanMode string
	Meta     MetaMap
}

// Spectrum is the ordered sequence of peaks at one retention time,
// spec.md §3. Parallel data arrays (named auxiliary float/string/int
// arrays of equal length to Peaks) travel alongside Peaks and must stay
// index-aligned through every mutating operation.
type Spectrum struct {
	NativeID           string
	MSLevel            int
	RT                 float64
	Polarity           Polarity
	Precursors         []Precursor
	ZoomScan           bool
	InstrumentSettings InstrumentSettings
	Peaks              []Peak
	FloatArrays        map[string][]float64
	StringArrays       map[string][]string
	IntArrays          map[string][]int64
	Meta               MetaMap

	sorted bool
}

// NewSpectrum returns an empty Spectrum at the given MS level.
func NewSpectrum(msLevel int) *Spectrum {
	return &Spectrum{MSLevel: msLevel}
}

// Clear resets the spectrum. When clearMetaData is false, settings,
// NativeID, and the parallel-array name set are preserved but emptied
// of data (spec.md §4.2 "two-level clear").
func (s *Spectrum) Clear(clearMetaData bool) {
	s.Peaks = nil
	for k := range s.FloatArrays {
		s.FloatArrays[k] = nil
	}
	for k := range s.StringArrays {
		s.StringArrays[k] = nil
	}
	for k := range s.IntArrays {
		s.IntArrays[k] = nil
	}
	s.sorted = false
	if clearMetaData {
		s.NativeID = ""
		s.MSLevel = 0
		s.RT = 0
		s.Polarity = PolarityUnknown
		s.Precursors = nil
		s.ZoomScan = false
		s.InstrumentSettings = InstrumentSettings{}
		s.FloatArrays = nil
		s.StringArrays = nil
		s.IntArrays = nil
		s.Meta = nil
	}
}

// Len reports the peak count.
func (s *Spectrum) Len() int { return len(s.Peaks) }

// IsEmpty reports whether the spectrum has no peaks (spec.md §4.8
// IsEmptySpectrum).
func (s *Spectrum) IsEmpty() bool { return len(s.Peaks) == 0 }

// SortByPosition sorts peaks by ascending m/z, stably, permuting every
// parallel array identically so alignment by original index is
// preserved (spec.md §3 invariant, §4.2 sortByPosition, §8 universal
// invariant: idempotent, parallel arrays co-permuted).
func (s *Spectrum) SortByPosition() {
	s.sortByKey(func(i, j int) bool { return s.Peaks[i].MZ < s.Peaks[j].MZ })
	s.sorted = true
}

// SortByIntensity sorts peaks by intensity, stably; reverse=true sorts
// descending.
func (s *Spectrum) SortByIntensity(reverse bool) {
	if reverse {
		s.sortByKey(func(i, j int) bool { return s.Peaks[i].Intensity > s.Peaks[j].Intensity })
	} else {
		s.sortByKey(func(i, j int) bool { return s.Peaks[i].Intensity < s.Peaks[j].Intensity })
	}
	s.sorted = false
}

// sortByKey computes an index permutation via the given less function
// over original indices, then applies it identically to Peaks and
// every parallel array — the mechanism spec.md §4.2 requires ("the
// sort is performed on an index permutation which is then applied
// identically to peaks and to every parallel array").
func (s *Spectrum) sortByKey(less func(i, j int) bool) {
	n := len(s.Peaks)
	if n < 2 {
		return
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return less(perm[a], perm[b]) })

	newPeaks := make([]Peak, n)
	for i, p := range perm {
		newPeaks[i] = s.Peaks[p]
	}
	s.Peaks = newPeaks

	permuteFloat := func(arr []float64) []float64 {
		if arr == nil {
			return nil
		}
		out := make([]float64, len(arr))
		for i, p := range perm {
			if p < len(arr) {
				out[i] = arr[p]
			}
		}
		return out
	}
	permuteString := func(arr []string) []string {
		if arr == nil {
			return nil
		}
		out := make([]string, len(arr))
		for i, p := range perm {
			if p < len(arr) {
				out[i] = arr[p]
			}
		}
		return out
	}
	permuteInt := func(arr []int64) []int64 {
		if arr == nil {
			return nil
		}
		out := make([]int64, len(arr))
		for i, p := range perm {
			if p < len(arr) {
				out[i] = arr[p]
			}
		}
		return out
	}
	for k, arr := range s.FloatArrays {
		s.FloatArrays[k] = permuteFloat(arr)
	}
	for k, arr := range s.StringArrays {
		s.StringArrays[k] = permuteString(arr)
	}
	for k, arr := range s.IntArrays {
		s.IntArrays[k] = permuteInt(arr)
	}
}

// FindNearest returns the index of the peak whose m/z is closest to x.
// Ties are broken toward the lower index. Returns a Precondition error
// if the spectrum is empty (spec.md §4.2, §9 Open Question: the
// tie-break policy is not documented in the source; this
// implementation settles on "lower index wins" and is the policy
// exercised by the S2 boundary test).
func (s *Spectrum) FindNearest(x float64) (int, error) {
	if len(s.Peaks) == 0 {
		return 0, errs.New(errs.Precondition, "FindNearest on empty spectrum")
	}
	best := 0
	bestDist := absFloat(s.Peaks[0].MZ - x)
	for i := 1; i < len(s.Peaks); i++ {
		d := absFloat(s.Peaks[i].MZ - x)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, nil
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// requireSorted returns a Precondition error unless SortByPosition has
// been called since the last mutation, matching spec.md §4.2's
// requirement that the range-based iterators "require sortedness".
func (s *Spectrum) requireSorted() error {
	if !s.sorted {
		return errs.New(errs.Precondition, "range query requires SortByPosition to have been called")
	}
	return nil
}

// MZRange returns the half-open index range [begin, end) of peaks with
// m/z in [lo, hi], found via binary search. Requires SortByPosition to
// have been called (spec.md §4.2 MZBegin/MZEnd).
func (s *Spectrum) MZRange(lo, hi float64) (begin, end int, err error) {
	if err := s.requireSorted(); err != nil {
		return 0, 0, err
	}
	begin = sort.Search(len(s.Peaks), func(i int) bool { return s.Peaks[i].MZ >= lo })
	end = sort.Search(len(s.Peaks), func(i int) bool { return s.Peaks[i].MZ > hi })
	return begin, end, nil
}

// ActiveMethods unions the activation methods across all precursors,
// the set HasActivationMethod tests against (spec.md §4.8).
func (s *Spectrum) ActiveMethods() ActivationSet {
	out := ActivationSet{}
	for _, p := range s.Precursors {
		for m := range p.Activation {
			out[m] = struct{}{}
		}
	}
	return out
}

// UpdateRanges folds this spectrum's peaks into mgr (spec.md §4.1
// RangeManager contract: explicit, not automatic).
func (s *Spectrum) UpdateRanges(mgr *rangeutil.Manager) {
	for _, p := range s.Peaks {
		mgr.ExtendByPoint(s.RT, p.MZ, p.Intensity)
	}
}

// Clone returns a deep copy (spec.md §3 Lifecycle: value-semantic
// types are copyable (deep)).
func (s *Spectrum) Clone() *Spectrum {
	cp := *s
	cp.Precursors = append([]Precursor(nil), s.Precursors...)
	for i, p := range s.Precursors {
		if p.Activation != nil {
			act := make(ActivationSet, len(p.Activation))
			for m := range p.Activation {
				act[m] = struct{}{}
			}
			cp.Precursors[i].Activation = act
		}
	}
	cp.Peaks = append([]Peak(nil), s.Peaks...)
	cp.Meta = s.Meta.Clone()
	cp.InstrumentSettings.Meta = s.InstrumentSettings.Meta.Clone()
	if s.FloatArrays != nil {
		cp.FloatArrays = make(map[string][]float64, len(s.FloatArrays))
		for k, v := range s.FloatArrays {
			cp.FloatArrays[k] = append([]float64(nil), v...)
		}
	}
	if s.StringArrays != nil {
		cp.StringArrays = make(map[string][]string, len(s.StringArrays))
		for k, v := range s.StringArrays {
			cp.StringArrays[k] = append([]string(nil), v...)
		}
	}
	if s.IntArrays != nil {
		cp.IntArrays = make(map[string][]int64, len(s.IntArrays))
		for k, v := range s.IntArrays {
			cp.IntArrays[k] = append([]int64(nil), v...)
		}
	}
	return &cp
}
