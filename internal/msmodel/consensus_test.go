package msmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildMap() *ConsensusMap {
	m := NewConsensusMap()
	m.ColumnHeaders[0] = ColumnHeader{Filename: "a.featureXML", Size: 2}
	m.ColumnHeaders[1] = ColumnHeader{Filename: "b.featureXML", Size: 2}
	m.Features = []ConsensusFeature{
		{
			ID: 1,
			Handles: []FeatureHandle{
				{MapIndex: 0, FeatureID: 10},
				{MapIndex: 1, FeatureID: 20},
			},
		},
	}
	return m
}

func TestIsMapConsistentTrueForValidMap(t *testing.T) {
	m := buildMap()
	assert.True(t, m.IsMapConsistent())
	assert.NoError(t, m.ValidateConsistency())
}

func TestIsMapConsistentFalseWhenHandleReferencesUnknownColumn(t *testing.T) {
	m := buildMap()
	m.Features[0].Handles = append(m.Features[0].Handles, FeatureHandle{MapIndex: 99, FeatureID: 30})
	assert.False(t, m.IsMapConsistent())
	assert.Error(t, m.ValidateConsistency())
}

func TestIsMapConsistentFalseWhenHeadersShareFilenameAndLabel(t *testing.T) {
	m := buildMap()
	m.ColumnHeaders[1] = ColumnHeader{Filename: "a.featureXML", Label: m.ColumnHeaders[0].Label, Size: 2}
	assert.False(t, m.IsMapConsistent())
	assert.Error(t, m.ValidateConsistency())
}

func TestIsMapConsistentTrueWhenHeadersShareFilenameButDifferentLabel(t *testing.T) {
	m := buildMap()
	m.ColumnHeaders[1] = ColumnHeader{Filename: m.ColumnHeaders[0].Filename, Label: "channel-2", Size: 2}
	assert.True(t, m.IsMapConsistent())
	assert.NoError(t, m.ValidateConsistency())
}

func TestAppendRowsKeepsColumnsUnchanged(t *testing.T) {
	m1 := buildMap()
	m2 := buildMap()
	m1.AppendRows(m2)
	assert.Len(t, m1.Features, 2)
	assert.Len(t, m1.ColumnHeaders, 2)
}

func TestAppendColumnsRemapsMapIndices(t *testing.T) {
	m1 := buildMap()
	m2 := buildMap()
	m2.ColumnHeaders[0] = ColumnHeader{Filename: "c.featureXML", Size: 2}
	m2.ColumnHeaders[1] = ColumnHeader{Filename: "d.featureXML", Size: 2}
	m1.AppendColumns(m2)

	assert.Len(t, m1.ColumnHeaders, 4)
	assert.True(t, m1.IsMapConsistent())
	// the appended feature's handles must point at the remapped columns
	appended := m1.Features[len(m1.Features)-1]
	for _, h := range appended.Handles {
		assert.GreaterOrEqual(t, h.MapIndex, 2)
	}
}

func TestSplitModes(t *testing.T) {
	ids := []string{"pep1", "pep2"}

	discard := Split(ids, SplitDiscard, 3)
	for _, out := range discard {
		assert.Nil(t, out)
	}

	copyAll := Split(ids, SplitCopyAll, 3)
	for _, out := range copyAll {
		assert.Equal(t, ids, out)
	}

	copyFirst := Split(ids, SplitCopyFirst, 3)
	assert.Equal(t, ids, copyFirst[0])
	assert.Nil(t, copyFirst[1])
	assert.Nil(t, copyFirst[2])
}
