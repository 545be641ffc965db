// Package msmodel owns the semantic containers of spec.md §3/§4.2 (C2):
// Peak, Spectrum, Chromatogram, Experiment, Feature, ConsensusMap, and
// the deconvolution/quantitation output types PeakGroup and
// IsobaricChannelInfo.
//
// Layering follows the teacher's l2frames ("assembling raw points into
// complete... frames, coordinate geometry... Key types: Point,
// FrameID, Pose") and l6objects ("cross-[frame] object identity") — the
// OpenMS analogue is Spectrum/Chromatogram assembly from decoded peaks
// (l2frames' role) and ConsensusFeature linking across maps (l6objects'
// role). This package intentionally owns both: they share the same
// range-tracking and metadata conventions and splitting them would
// only add import indirection without isolating churn.
//
// Dependency rule: msmodel depends on rangeutil and errs only; it has no
// inward dependency on codec, mzml, cvterm, isobaric, or deconv — those
// packages depend on msmodel, never the reverse.
package msmodel
