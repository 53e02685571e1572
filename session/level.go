package session

import (
	"encoding/binary"
	"math"
	"sync"
)

// speechLevel is the RMS threshold above which a tick counts as speech.
const speechLevel = 0.02

// levelMeter turns raw PCM chunks into normalized RMS levels and answers,
// once per monitor tick, whether anything spoken arrived since the last
// tick. Observe is called from the capture callback; SpeechTick from the
// tick loop.
type levelMeter struct {
	mu       sync.Mutex
	tickPeak float64
	peak     float64
}

func newLevelMeter() *levelMeter {
	return &levelMeter{}
}

// Observe computes the RMS of one chunk of little-endian 16-bit mono PCM,
// normalized to [0,1], and folds it into the running peaks.
func (m *levelMeter) Observe(data []byte) float64 {
	if len(data) < 2 {
		return 0
	}
	var sumSquares float64
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(data[i:]))
		normalized := float64(sample) / 32768.0
		sumSquares += normalized * normalized
	}
	rms := math.Sqrt(sumSquares / float64(len(data)/2))

	m.mu.Lock()
	if rms > m.tickPeak {
		m.tickPeak = rms
	}
	if rms > m.peak {
		m.peak = rms
	}
	m.mu.Unlock()
	return rms
}

// SpeechTick reports whether the peak level since the previous call crossed
// the speech threshold, then resets the per-tick peak.
func (m *levelMeter) SpeechTick() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	speech := m.tickPeak >= speechLevel
	m.tickPeak = 0
	return speech
}

// Peak returns the loudest level observed over the whole recording.
func (m *levelMeter) Peak() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}
