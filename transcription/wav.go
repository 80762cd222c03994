package transcription

import (
	"bytes"
	"encoding/binary"

	"github.com/kbukum/jumptube/audio"
)

// EncodeWAV renders pcm as a 16-bit mono RIFF/WAVE file, the upload
// format every HTTP engine accepts.
func EncodeWAV(pcm audio.PCM) []byte {
	rate := pcm.SampleRate
	if rate <= 0 {
		rate = audio.SampleRate
	}
	dataLen := len(pcm.Samples) * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))     // fmt chunk size
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))      // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))      // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate))   // sample rate
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate*2)) // byte rate
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))      // block align
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))     // bits per sample
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))

	var sample [2]byte
	for _, s := range pcm.Samples {
		binary.LittleEndian.PutUint16(sample[:], uint16(toInt16(s)))
		buf.Write(sample[:])
	}
	return buf.Bytes()
}

func toInt16(s float32) int16 {
	v := s * 32768
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}
