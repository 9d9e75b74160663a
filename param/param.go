// Package param implements the parameter table shared by the audio thread, the
// host's main thread and the editor. Every parameter is a single scalar cell
// that can be read and written without locks; there is no consistency between
// different cells.
package param

import (
	"fmt"
	"strconv"

	"github.com/vsariola/cave"
)

type (
	// Descriptor is the static description of a parameter, fixed at build
	// time.
	Descriptor struct {
		ID      cave.ParamID
		Name    string
		Min     float64
		Max     float64
		Default float64
		Flags   Flags
	}

	Flags uint32
)

const (
	Automatable Flags = 1 << iota
	ReadOnly
	Hidden
)

// GainID is the identifier of the only parameter of the instrument.
const GainID cave.ParamID = 0

// Gain scales the output of the oscillator.
var Gain = Descriptor{
	ID:      GainID,
	Name:    "Gain",
	Min:     0,
	Max:     1,
	Default: 0.5,
	Flags:   Automatable,
}

// All lists the parameters of the instrument in host enumeration order.
var All = []Descriptor{Gain}

func (d Descriptor) Automatable() bool { return d.Flags&Automatable != 0 }

// Normalize maps a plain value to 0..1 over the descriptor range. Values
// outside the range map outside 0..1.
func (d Descriptor) Normalize(v float64) float64 {
	if d.Max <= d.Min {
		return 0
	}
	return (v - d.Min) / (d.Max - d.Min)
}

// Denormalize is the inverse of Normalize.
func (d Descriptor) Denormalize(n float64) float64 {
	return d.Min + n*(d.Max-d.Min)
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s (id %d, %g..%g, default %g)", d.Name, d.ID, d.Min, d.Max, d.Default)
}

// FormatValue renders a value for display, with three decimals.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// ParseValue parses user or host supplied text. Anything that parses as a
// float is accepted; the range is not checked.
func ParseValue(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
