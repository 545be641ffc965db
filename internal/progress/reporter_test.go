package progress_test

import (
	"testing"

	"github.com/openms-go/mscore/internal/progress"
	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := progress.Logf
	defer func() { progress.Logf = original }()

	called := false
	progress.SetLogger(func(string, ...interface{}) { called = true })
	progress.Logf("hi")
	assert.True(t, called)

	progress.SetLogger(nil)
	assert.NotPanics(t, func() { progress.Logf("hi") })
}

func TestNewReporterNoneIsSafeNoop(t *testing.T) {
	r := progress.NewReporter(progress.None)
	assert.NotPanics(t, func() {
		r.Start("deconvolution", 100)
		r.Step(10)
		r.End()
	})
}

func TestNewReporterDefaultsOnUnknownType(t *testing.T) {
	r := progress.NewReporter(progress.LogType(99))
	assert.NotPanics(t, func() { r.Start("x", 1) })
}
