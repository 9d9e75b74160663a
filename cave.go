// Package cave holds the value types shared by the Cave instrument: the events
// delivered by the host in every processing block and the planar audio buffers
// the engine renders into.
//
// The instrument itself is split into param (the lock-free parameter table),
// engine (the audio-thread voice), gui (the editor window lifecycle) and
// plugin (the host-facing facade tying them together).
package cave

// AudioBuffer is a planar block of audio: one slice per channel, all channels
// of equal length.
type AudioBuffer [][]float32

// MakeAudioBuffer allocates a zeroed buffer with the given channel count and
// number of frames per channel. Not to be called on the audio thread.
func MakeAudioBuffer(channels, frames int) AudioBuffer {
	backing := make([]float32, channels*frames)
	ret := make(AudioBuffer, channels)
	for i := range ret {
		ret[i] = backing[i*frames : (i+1)*frames : (i+1)*frames]
	}
	return ret
}

// Frames returns the number of frames in the buffer, i.e. the length of the
// first channel.
func (b AudioBuffer) Frames() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Clear zeroes every channel.
func (b AudioBuffer) Clear() {
	for _, ch := range b {
		clear(ch)
	}
}
