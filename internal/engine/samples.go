package engine

import (
	"bytes"
	"encoding/binary"
	"math"
)

// EncodeSamples serializes an audio window as little-endian float32,
// the input framing the bundled runner binaries read on stdin.
func EncodeSamples(samples []float64) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 4*len(samples)))
	for _, s := range samples {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(s)))
		buf.Write(b[:])
	}
	return buf.Bytes()
}
