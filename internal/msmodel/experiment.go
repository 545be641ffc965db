package msmodel

import (
	"sort"

	"github.com/openms-go/mscore/internal/rangeutil"
)

// SourceFile names one input file an Experiment was assembled from.
type SourceFile struct {
	Path     string
	Checksum string
}

// ExperimentalSettings is the shared metadata an Experiment carries,
// spec.md §3.
type ExperimentalSettings struct {
	Instrument         string
	Sample             string
	SourceFiles        []SourceFile
	Contacts           []string
	HPLC               string
	Comment            string
	FractionIdentifier string
	DocumentIdentifier string

	// PrimaryMSRunPathOverride, when non-empty, is what
	// GetPrimaryMSRunPath returns instead of SourceFiles — the "writer-
	// side honours an override list" rule in spec.md §4.2.
	PrimaryMSRunPathOverride []string
}

// Experiment (MSExperiment) is the ordered sequence of Spectra plus
// zero or more Chromatograms, spec.md §3.
type Experiment struct {
	Spectra       []*Spectrum
	Chromatograms []*Chromatogram
	Settings      ExperimentalSettings

	ranges *rangeutil.Manager
}

// NewExperiment returns an empty Experiment.
func NewExperiment() *Experiment {
	return &Experiment{ranges: rangeutil.NewManager()}
}

// AddSpectrum appends a spectrum.
func (e *Experiment) AddSpectrum(s *Spectrum) { e.Spectra = append(e.Spectra, s) }

// AddChromatogram appends a chromatogram.
func (e *Experiment) AddChromatogram(c *Chromatogram) { e.Chromatograms = append(e.Chromatograms, c) }

// SortByPosition sorts Spectra by ascending retention time, stably
// (spec.md §3: "sequence is sorted by retention time after
// sortByPosition()"), and sorts each spectrum's own peaks by m/z.
func (e *Experiment) SortByPosition() {
	sort.SliceStable(e.Spectra, func(i, j int) bool { return e.Spectra[i].RT < e.Spectra[j].RT })
	for _, s := range e.Spectra {
		s.SortByPosition()
	}
}

// UpdateRanges recomputes the RT/m/z/intensity envelope across every
// owned spectrum (spec.md §4.1 updateRanges()). Queries made without
// calling this first may observe stale ranges — a documented contract,
// not a bug.
func (e *Experiment) UpdateRanges() {
	mgr := rangeutil.NewManager()
	for _, s := range e.Spectra {
		s.UpdateRanges(mgr)
	}
	e.ranges = mgr
}

// Ranges returns the last computed range manager (possibly stale; call
// UpdateRanges first for a fresh view).
func (e *Experiment) Ranges() *rangeutil.Manager { return e.ranges }

// Point2D is one flattened (rt, mz, intensity) tuple from an MS1
// spectrum, the unit Get2DData/Set2DData operate on (spec.md §4.2).
type Point2D struct {
	RT        float64
	MZ        float64
	Intensity float64
}

// Get2DData flattens every MS1 spectrum's peaks into (rt, mz,
// intensity) tuples, in spectrum order then peak order.
func (e *Experiment) Get2DData() []Point2D {
	var out []Point2D
	for _, s := range e.Spectra {
		if s.MSLevel != 1 {
			continue
		}
		for _, p := range s.Peaks {
			out = append(out, Point2D{RT: s.RT, MZ: p.MZ, Intensity: p.Intensity})
		}
	}
	return out
}

// Set2DData replaces e's Spectra with MS1 spectra reconstructed from
// points, bucketing by equal RT with stable grouping order (spec.md
// §4.2 set2DData: "bucketing by equal RT (stable)").
func (e *Experiment) Set2DData(points []Point2D) {
	order := make([]float64, 0)
	buckets := make(map[float64][]Peak)
	for _, p := range points {
		if _, ok := buckets[p.RT]; !ok {
			order = append(order, p.RT)
		}
		buckets[p.RT] = append(buckets[p.RT], Peak{MZ: p.MZ, Intensity: p.Intensity})
	}
	e.Spectra = e.Spectra[:0]
	for _, rt := range order {
		s := NewSpectrum(1)
		s.RT = rt
		s.Peaks = buckets[rt]
		e.Spectra = append(e.Spectra, s)
	}
}

// GetPrimaryMSRunPath returns the recorded source filenames, or the
// writer-side override list if one was set (spec.md §4.2).
func (e *Experiment) GetPrimaryMSRunPath() []string {
	if len(e.Settings.PrimaryMSRunPathOverride) > 0 {
		return e.Settings.PrimaryMSRunPathOverride
	}
	out := make([]string, len(e.Settings.SourceFiles))
	for i, sf := range e.Settings.SourceFiles {
		out[i] = sf.Path
	}
	return out
}

// SpectraAtLevel returns the spectra at the given MS level, in
// experiment order.
func (e *Experiment) SpectraAtLevel(level int) []*Spectrum {
	var out []*Spectrum
	for _, s := range e.Spectra {
		if s.MSLevel == level {
			out = append(out, s)
		}
	}
	return out
}
