// Package beep plays short audible cues so the user knows a recording
// started or stopped without looking at the terminal.
package beep

import (
	"math"
	"sync"
)

var disabled bool

// Disable turns all cues off, for headless runs and tests.
func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Start cue: high pitch, short
	startFreq   = 1200
	startVolume = 0.5
	startDecay  = 60

	// End cue: medium pitch, slightly longer
	endFreq   = 900
	endVolume = 0.5
	endDecay  = 40

	// Error cue: low pitch double-beep
	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30
)

var (
	startSamples []int16
	endSamples   []int16
	errorSamples []int16
	cueOnce      sync.Once
)

func initCues() {
	startSamples = tone(startFreq, 0.2, startVolume, startDecay)
	endSamples = tone(endFreq, 0.2, endVolume, endDecay)
	errorSamples = doubleTone(errorFreq, 0.08, 0.05, errorVolume, errorDecay)
}

// tone synthesizes a mono sine burst with an exponential decay envelope.
func tone(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func doubleTone(freq, burstDur, gapDur, volume, decay float64) []int16 {
	burst := tone(freq, burstDur, volume, decay)
	gap := make([]int16, int(sampleRate*gapDur))
	result := make([]int16, 0, len(burst)*2+len(gap))
	result = append(result, burst...)
	result = append(result, gap...)
	result = append(result, burst...)
	return result
}

// Init prepares the playback backend ahead of the first cue so it does not
// add latency to the first recording.
func Init() {
	if disabled {
		return
	}
	cueOnce.Do(initCues)
	initBackend()
}

func PlayStart() { play(startSamples) }
func PlayEnd()   { play(endSamples) }
func PlayError() { play(errorSamples) }

func play(samples []int16) {
	if disabled {
		return
	}
	cueOnce.Do(initCues)
	go playTone(samples)
}
