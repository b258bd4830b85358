package alert

import (
	"encoding/binary"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
)

// Synthesize renders a pattern as signed 16-bit little-endian mono PCM:
// a square wave at hz for "on" segments, silence for "off" segments.
func Synthesize(pattern domain.VibePattern, hz, amplitude, rate int) []byte {
	var total int
	for _, seg := range pattern {
		total += samplesFor(seg, rate)
	}

	const width = BitDepth / 8
	pcm := make([]byte, total*width)
	if hz <= 0 {
		hz = DefaultToneHz
	}
	halfPeriod := rate / (2 * hz)
	if halfPeriod < 1 {
		halfPeriod = 1
	}

	pos := 0
	for i, seg := range pattern {
		n := samplesFor(seg, rate)
		if pattern.On(i) {
			for s := 0; s < n; s++ {
				v := int16(amplitude)
				if (s/halfPeriod)%2 == 1 {
					v = -v
				}
				binary.LittleEndian.PutUint16(pcm[(pos+s)*width:], uint16(v))
			}
		}
		pos += n
	}
	return pcm
}

func samplesFor(d time.Duration, rate int) int {
	if d <= 0 {
		return 0
	}
	return int(int64(d) * int64(rate) / int64(time.Second))
}
