package mzml

import (
	"bytes"

	"github.com/openms-go/mscore/internal/errs"
	"github.com/openms-go/mscore/internal/fsutil"
	"github.com/openms-go/mscore/internal/msmodel"
	"github.com/openms-go/mscore/internal/security"
)

// WriteToFile renders experiment as an indexedmzML document and writes
// it to path on fsys, rejecting path if it resolves outside baseDir
// (spec.md's file-writer boundary guards every on-disk write this way,
// the same traversal check a caller-supplied export path needs before
// any exporter — mzML, featureXML, consensusXML — is allowed to touch
// the filesystem).
func WriteToFile(fsys fsutil.FileSystem, path, baseDir string, experiment *msmodel.Experiment, opts WriteOptions) (*Index, error) {
	if err := security.ValidatePathWithinDirectory(path, baseDir); err != nil {
		return nil, errs.Wrap(errs.FileNotWritable, "rejecting mzML export path", err)
	}

	var buf bytes.Buffer
	idx, err := Write(&buf, experiment, opts)
	if err != nil {
		return nil, err
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, errs.Wrap(errs.FileNotWritable, "writing mzML export", err)
	}
	return idx, nil
}

// ReadFromFile validates that path resolves within baseDir, then reads
// and parses the indexedmzML document it names.
func ReadFromFile(fsys fsutil.FileSystem, path, baseDir string) (*msmodel.Experiment, *Index, error) {
	if err := security.ValidatePathWithinDirectory(path, baseDir); err != nil {
		return nil, nil, errs.Wrap(errs.FileNotReadable, "rejecting mzML import path", err)
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.FileNotReadable, "reading mzML file", err)
	}
	return Read(data)
}
