package msmodel

// IsobaricChannelInfo describes one reporter-ion channel of an
// isobaric labeling method (iTRAQ/TMT), including the up to four
// neighbor channels whose isotope impurities bleed into it (spec.md
// §4.9, grounded on the channel/neighbor layout used by impurity
// correction).
type IsobaricChannelInfo struct {
	Name        string
	ID          int
	Description string
	CenterMZ    float64
	Active      bool

	// MinusTwo, MinusOne, PlusOne, PlusTwo name the channels (by Name)
	// whose isotope contamination this channel's correction factors
	// reference; empty string means no such neighbor exists for this
	// channel (e.g. the lowest-mass channel has no Minus neighbors).
	MinusTwo string
	MinusOne string
	PlusOne  string
	PlusTwo  string
}

// Neighbors returns the non-empty neighbor channel names, in
// (-2, -1, +1, +2) order.
func (c IsobaricChannelInfo) Neighbors() []string {
	var out []string
	for _, n := range []string{c.MinusTwo, c.MinusOne, c.PlusOne, c.PlusTwo} {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
