package msmodel

// TargetDecoyType classifies a PeakGroup as a genuine deconvolution
// candidate or one of the synthetic decoys generated to estimate a
// false-discovery rate (spec.md §4.10).
type TargetDecoyType int

const (
	TargetDecoyTarget TargetDecoyType = iota
	TargetDecoyChargeDummy
	TargetDecoyNoiseDummy
	TargetDecoyIsotopeDummy
)

func (t TargetDecoyType) String() string {
	switch t {
	case TargetDecoyChargeDummy:
		return "charge_dummy"
	case TargetDecoyNoiseDummy:
		return "noise_dummy"
	case TargetDecoyIsotopeDummy:
		return "isotope_dummy"
	default:
		return "target"
	}
}

// FeatureSeed is one (m/z, intensity) observation considered as a
// member of a candidate isotope envelope during deconvolution, before
// it has been assigned to a PeakGroup.
type FeatureSeed struct {
	MZ           float64
	Intensity    float64
	Charge       int
	IsotopeIndex int
}

// PeakGroup is a set of FeatureSeeds deconvolution has assembled into
// one isotope envelope, together with the monoisotopic mass and
// scoring the assembly step computed (spec.md §4.10).
type PeakGroup struct {
	Seeds              []FeatureSeed
	Charge             int
	MonoisotopicMass   float64
	IsotopeCosine      float64
	ChargeCosine       float64
	SNR                float64
	TargetDecoy        TargetDecoyType
	RepresentativeMZ   float64
	RepresentativeRT   float64
	Meta               MetaMap
}

// NewPeakGroup returns an empty PeakGroup at the given charge.
func NewPeakGroup(charge int) *PeakGroup {
	return &PeakGroup{Charge: charge}
}

// TotalIntensity sums the intensities of every seed in the group.
func (g *PeakGroup) TotalIntensity() float64 {
	var total float64
	for _, s := range g.Seeds {
		total += s.Intensity
	}
	return total
}

// IsTarget reports whether this group is a genuine candidate rather
// than one of the synthetic decoy types.
func (g *PeakGroup) IsTarget() bool { return g.TargetDecoy == TargetDecoyTarget }
