package audio

import (
	"bufio"
	"encoding/binary"
	"io"
	"time"
)

// SampleRate is the rate every extracted stream is resampled to.
const SampleRate = 16000

// PCM is mono audio normalized to [-1.0, 1.0).
type PCM struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the length of the audio.
func (p PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(p.Samples)) * time.Second / time.Duration(p.SampleRate)
}

// DecodeS16LE reads signed 16-bit little-endian samples from r until EOF
// and scales them by 1/32768. It returns the decoded samples and the
// number of bytes consumed; a trailing odd byte is counted but ignored.
func DecodeS16LE(r io.Reader) ([]float32, int64, error) {
	br := bufio.NewReaderSize(r, 64<<10)
	samples := make([]float32, 0, SampleRate*60)
	var n int64
	var pair [2]byte
	for {
		read, err := io.ReadFull(br, pair[:])
		n += int64(read)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return samples, n, nil
		}
		if err != nil {
			return samples, n, err
		}
		v := int16(binary.LittleEndian.Uint16(pair[:]))
		samples = append(samples, float32(v)/32768.0)
	}
}
