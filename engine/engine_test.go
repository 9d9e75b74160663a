package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/cave"
	"github.com/vsariola/cave/engine"
	"github.com/vsariola/cave/param"
)

const sampleRate = 48000

func newEngine(maxFrames int) (*engine.Engine, *param.Store) {
	store := param.NewDefaultStore()
	return engine.New(store, sampleRate, maxFrames), store
}

func amp(store *param.Store) float32 {
	return float32(store.Gain() * 0.1)
}

func render(e *engine.Engine, frames int, events ...cave.Event) cave.AudioBuffer {
	buf := cave.MakeAudioBuffer(2, frames)
	e.Process(events, buf)
	return buf
}

func assertSilent(t *testing.T, buf cave.AudioBuffer) {
	t.Helper()
	for c, ch := range buf {
		for i, s := range ch {
			if s != 0 {
				t.Fatalf("channel %d sample %d = %v, want 0", c, i, s)
			}
		}
	}
}

func TestInitialStateIsSilent(t *testing.T) {
	e, _ := newEngine(64)
	assert.Equal(t, engine.Silent, e.State())
	assertSilent(t, render(e, 64))
}

func TestA4HalfPeriodAt48kHz(t *testing.T) {
	e, store := newEngine(64)
	a := amp(store)
	buf := render(e, 64, cave.NoteOn(0, 69, 1))
	require.Equal(t, engine.Sounding, e.State())
	assert.Equal(t, 440.0, e.Frequency())
	// the phase advances before each sample: 54 samples stay below 0.5
	for i := 0; i < 54; i++ {
		require.Equal(t, a, buf[0][i], "sample %d", i)
	}
	for i := 54; i < 64; i++ {
		require.Equal(t, -a, buf[0][i], "sample %d", i)
	}
	// over many blocks the runs alternate between 54 and 55 samples
	var samples []float32
	samples = append(samples, buf[0]...)
	for i := 0; i < 40; i++ {
		samples = append(samples, render(e, 64)[0]...)
	}
	runs := runLengths(samples)
	require.Greater(t, len(runs), 10)
	for _, r := range runs[1 : len(runs)-1] {
		assert.Contains(t, []int{54, 55}, r)
	}
}

func TestOutputLevelsFollowGain(t *testing.T) {
	e, store := newEngine(128)
	store.Set(param.GainID, 0.8)
	buf := render(e, 128, cave.NoteOn(0, 60, 1))
	a := float32(0.8 * 0.1)
	for _, s := range buf[0] {
		require.True(t, s == a || s == -a, "sample %v not ±%v", s, a)
	}
}

func TestZeroCrossingPeriodForAllKeys(t *testing.T) {
	for key := 0; key <= cave.MaxKey; key++ {
		e, _ := newEngine(1024)
		f := engine.KeyFrequency(key)
		period := sampleRate / f
		frames := int(period*4) + 64
		buf := render(e, frames, cave.NoteOn(0, key, 1))
		edges := risingEdges(buf[0])
		require.GreaterOrEqual(t, len(edges), 3, "key %d", key)
		for i := 1; i < len(edges); i++ {
			d := float64(edges[i] - edges[i-1])
			if math.Abs(d-period) > 1 {
				t.Fatalf("key %d: period %v samples, want %v ± 1", key, d, period)
			}
		}
	}
}

func TestKeyFrequency(t *testing.T) {
	assert.Equal(t, 440.0, engine.KeyFrequency(69))
	assert.InDelta(t, 880.0, engine.KeyFrequency(81), 1e-9)
	assert.InDelta(t, 261.6255653, engine.KeyFrequency(60), 1e-6)
	assert.InDelta(t, 8.1757989, engine.KeyFrequency(0), 1e-6)
}

func TestNoteOffSilencesFromNextBlock(t *testing.T) {
	e, _ := newEngine(64)
	buf := render(e, 64, cave.NoteOn(0, 64, 1))
	assert.NotZero(t, buf[0][0])
	assertSilent(t, render(e, 64, cave.NoteOff(0, 64)))
	assert.Equal(t, engine.Silent, e.State())
	assertSilent(t, render(e, 64))
}

func TestNoteOffForAnyKeySilences(t *testing.T) {
	e, _ := newEngine(64)
	render(e, 64, cave.NoteOn(0, 60, 1))
	assertSilent(t, render(e, 64, cave.NoteOff(0, 72)))
	assert.Equal(t, engine.Silent, e.State())
}

func TestWildcardAndOutOfRangeKeysAreIgnored(t *testing.T) {
	e, _ := newEngine(64)
	assertSilent(t, render(e, 64, cave.NoteOn(0, cave.WildcardKey, 1), cave.NoteOn(0, 128, 1)))
	assert.Equal(t, engine.Silent, e.State())
	assert.Equal(t, engine.DefaultFrequency, e.Frequency())

	render(e, 64, cave.NoteOn(0, 57, 1))
	render(e, 64, cave.NoteOff(0, cave.WildcardKey))
	assert.Equal(t, engine.Sounding, e.State(), "a wildcard note-off must not silence the voice")
}

func TestUnknownEventsAreIgnored(t *testing.T) {
	e, _ := newEngine(64)
	assertSilent(t, render(e, 64, cave.Event{Kind: cave.EventNone, Key: 60}, cave.Event{Kind: 99, Key: 60}))
}

func TestZeroGainIsSilentWhileSounding(t *testing.T) {
	e, store := newEngine(64)
	render(e, 64, cave.NoteOn(0, 69, 1))
	buf := render(e, 64, cave.ParamValue(0, param.GainID, 0))
	assertSilent(t, buf)
	assert.Equal(t, engine.Sounding, e.State())
	assert.Equal(t, 0.0, store.Gain())
	for _, s := range buf[0] {
		assert.False(t, math.Signbit(float64(s)), "negative zero in output")
	}
}

func TestGainIsReadOncePerBlock(t *testing.T) {
	e, store := newEngine(64)
	// the change at frame 32 still applies to the whole block
	buf := render(e, 64, cave.NoteOn(0, 69, 1), cave.ParamValue(32, param.GainID, 1))
	assert.Equal(t, float32(0.1), buf[0][0])
	assert.Equal(t, float32(0.1), buf[0][20])
	assert.Equal(t, 1.0, store.Gain())
}

func TestForeignParamIDsAreDropped(t *testing.T) {
	e, store := newEngine(64)
	render(e, 64, cave.ParamValue(0, 7, 0.9))
	assert.Equal(t, 0.5, store.Gain())
}

func TestChannelsAreIdentical(t *testing.T) {
	e, _ := newEngine(256)
	buf := cave.MakeAudioBuffer(2, 256)
	e.Process([]cave.Event{cave.NoteOn(0, 48, 1)}, buf)
	assert.Equal(t, buf[0], buf[1])
	assert.NotEqual(t, make([]float32, 256), buf[0])
}

func TestNoteEventsAreSampleAccurate(t *testing.T) {
	e, _ := newEngine(64)
	buf := render(e, 64, cave.NoteOn(10, 69, 1), cave.NoteOff(40, 69))
	for i := 0; i < 10; i++ {
		assert.Zero(t, buf[0][i])
	}
	for i := 10; i < 40; i++ {
		assert.NotZero(t, buf[0][i])
	}
	for i := 40; i < 64; i++ {
		assert.Zero(t, buf[0][i])
	}
}

func TestEventsPastTheBlockAreNotLost(t *testing.T) {
	e, _ := newEngine(64)
	assertSilent(t, render(e, 64, cave.NoteOn(100, 69, 1)))
	assert.Equal(t, engine.Sounding, e.State())
	e2, _ := newEngine(64)
	e2.Process([]cave.Event{cave.NoteOn(0, 69, 1)}, cave.AudioBuffer{})
	assert.Equal(t, engine.Sounding, e2.State())
}

func TestLargeBlocksRenderInChunks(t *testing.T) {
	events := []cave.Event{cave.NoteOn(3, 50, 1), cave.NoteOn(300, 62, 1), cave.NoteOff(450, 0)}
	small, _ := newEngine(16)
	big, _ := newEngine(512)
	a := render(small, 512, events...)
	b := render(big, 512, events...)
	assert.Equal(t, 16, small.MaxFrames())
	assert.Equal(t, b, a)
}

func TestPhaseStaysWrapped(t *testing.T) {
	e, _ := newEngine(64)
	render(e, 64, cave.NoteOn(0, cave.MaxKey, 1))
	for i := 0; i < 100; i++ {
		render(e, 64)
		p := e.Phase()
		require.True(t, p >= 0 && p < 1, "phase %v", p)
	}
}

func TestLowSampleRateWraps(t *testing.T) {
	store := param.NewDefaultStore()
	e := engine.New(store, 8000, 64)
	buf := cave.MakeAudioBuffer(1, 64)
	e.Process([]cave.Event{cave.NoteOn(0, cave.MaxKey, 1)}, buf) // step > 1
	p := e.Phase()
	assert.True(t, p >= 0 && p < 1, "phase %v", p)
}

func TestReset(t *testing.T) {
	e, _ := newEngine(64)
	render(e, 64, cave.NoteOn(0, 80, 1))
	e.Reset()
	assert.Equal(t, engine.Silent, e.State())
	assert.Zero(t, e.Phase())
	assert.Equal(t, engine.DefaultFrequency, e.Frequency())
}

func TestProcessDoesNotAllocate(t *testing.T) {
	e, _ := newEngine(256)
	buf := cave.MakeAudioBuffer(2, 256)
	events := []cave.Event{cave.NoteOn(0, 60, 1), cave.ParamValue(0, param.GainID, 0.7), cave.NoteOff(128, 60), cave.NoteOn(200, 61, 1)}
	allocs := testing.AllocsPerRun(200, func() {
		e.Process(events, buf)
	})
	assert.Zero(t, allocs)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "silent", engine.Silent.String())
	assert.Equal(t, "sounding", engine.Sounding.String())
}

func risingEdges(s []float32) []int {
	var ret []int
	for i := 1; i < len(s); i++ {
		if s[i-1] < 0 && s[i] > 0 {
			ret = append(ret, i)
		}
	}
	return ret
}

func runLengths(s []float32) []int {
	var ret []int
	n := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			n++
			continue
		}
		ret = append(ret, n)
		n = 1
	}
	return append(ret, n)
}

func BenchmarkProcess(b *testing.B) {
	e, _ := newEngine(512)
	buf := cave.MakeAudioBuffer(2, 512)
	e.Process([]cave.Event{cave.NoteOn(0, 60, 1)}, buf)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Process(nil, buf)
	}
}
