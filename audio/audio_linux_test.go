//go:build linux

package audio

import "testing"

func TestAmplifyClipsAtInt16Range(t *testing.T) {
	cases := []struct {
		in   int16
		gain int32
		want int16
	}{
		{0, 8, 0},
		{100, 8, 800},
		{-100, 8, -800},
		{30000, 8, 32767},
		{-30000, 8, -32768},
		{32767, 1, 32767},
		{-32768, 1, -32768},
	}
	for _, c := range cases {
		if got := amplify(c.in, c.gain); got != c.want {
			t.Errorf("amplify(%d, %d) = %d, want %d", c.in, c.gain, got, c.want)
		}
	}
}

func TestPulseCaptureIsMonoOnly(t *testing.T) {
	p := &pulseContext{}
	if _, err := p.NewCapture(nil, CaptureConfig{SampleRate: 16000, Channels: 2}); err == nil {
		t.Fatal("expected an error for a stereo capture request")
	}
	if _, err := p.NewCapture(nil, CaptureConfig{SampleRate: 16000, Channels: 1}); err != nil {
		t.Fatalf("mono capture request failed: %v", err)
	}
}
