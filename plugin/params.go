package plugin

import (
	"github.com/vsariola/cave"
	"github.com/vsariola/cave/param"
)

func (p *Plugin) ParamCount() int { return p.params.Count() }

// ParamInfo describes the parameter at index, in [0, ParamCount).
func (p *Plugin) ParamInfo(index int) (param.Descriptor, bool) {
	return p.params.Descriptor(index)
}

func (p *Plugin) ParamValue(id cave.ParamID) (float64, bool) {
	return p.params.Value(id)
}

// ValueToText formats value for display. Every parameter shares one format.
func (p *Plugin) ValueToText(id cave.ParamID, value float64) (string, bool) {
	if _, ok := p.params.Lookup(id); !ok {
		return "", false
	}
	return param.FormatValue(value), true
}

// TextToValue parses a typed value. The result is not range checked.
func (p *Plugin) TextToValue(id cave.ParamID, text string) (float64, bool) {
	if _, ok := p.params.Lookup(id); !ok {
		return 0, false
	}
	return param.ParseValue(text)
}
