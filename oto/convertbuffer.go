package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/cave"
)

const bytesPerSample = 4

// interleaveFloat32LE writes frames [from, from+n) of the planar buffer into
// dst as interleaved little-endian float32, channel by channel per frame. dst
// must hold n*len(src)*4 bytes.
func interleaveFloat32LE(dst []byte, src cave.AudioBuffer, from, n int) {
	i := 0
	for f := from; f < from+n; f++ {
		for _, ch := range src {
			binary.LittleEndian.PutUint32(dst[i:], math.Float32bits(ch[f]))
			i += bytesPerSample
		}
	}
}
