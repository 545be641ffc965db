package msmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsobaricChannelInfoNeighborsSkipsEmpty(t *testing.T) {
	c := IsobaricChannelInfo{
		Name:     "126",
		MinusTwo: "",
		MinusOne: "",
		PlusOne:  "127N",
		PlusTwo:  "128N",
	}
	assert.Equal(t, []string{"127N", "128N"}, c.Neighbors())
}

func TestIsobaricChannelInfoNeighborsEmptyWhenIsolated(t *testing.T) {
	c := IsobaricChannelInfo{Name: "solo"}
	assert.Nil(t, c.Neighbors())
}
