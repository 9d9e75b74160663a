package cave

type (
	// Event is one entry of the per-block event batch delivered by the host.
	// Frame is the offset of the event from the start of the current block.
	// Only the fields relevant to Kind are meaningful.
	Event struct {
		Frame    int
		Kind     EventKind
		Channel  int
		Key      int     // note key 0..127, or WildcardKey
		Velocity float64 // normalized 0..1, note-on only
		Param    ParamID
		Value    float64
	}

	EventKind int

	// ParamID is the stable identifier of an automatable parameter.
	ParamID uint32
)

const (
	EventNone EventKind = iota
	EventNoteOn
	EventNoteOff
	EventParamValue
)

// WildcardKey matches any key; the engine only reacts to specific keys.
const WildcardKey = -1

// MaxKey is the highest key of the MIDI note space.
const MaxKey = 127

func NoteOn(frame, key int, velocity float64) Event {
	return Event{Frame: frame, Kind: EventNoteOn, Key: key, Velocity: velocity}
}

func NoteOff(frame, key int) Event {
	return Event{Frame: frame, Kind: EventNoteOff, Key: key}
}

func ParamValue(frame int, id ParamID, value float64) Event {
	return Event{Frame: frame, Kind: EventParamValue, Param: id, Value: value}
}

// HasSpecificKey reports whether the event targets one concrete key of the
// MIDI note space, as opposed to a wildcard or an out-of-range key.
func (e Event) HasSpecificKey() bool {
	return e.Key >= 0 && e.Key <= MaxKey
}

func (k EventKind) String() string {
	switch k {
	case EventNoteOn:
		return "note-on"
	case EventNoteOff:
		return "note-off"
	case EventParamValue:
		return "param-value"
	default:
		return "none"
	}
}
