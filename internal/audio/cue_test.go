package audio

import (
	"bytes"
	"testing"
)

func TestBellPlay(t *testing.T) {
	tests := []struct {
		name  string
		muted bool
		cues  []Cue
		want  string
	}{
		{"hit", false, []Cue{CueHit}, "\a"},
		{"miss", false, []Cue{CueMiss}, "\a\a"},
		{"sequence", false, []Cue{CueHit, CueMiss, CueHit}, "\a\a\a\a"},
		{"muted", true, []Cue{CueHit, CueMiss}, ""},
		{"unknown cue", false, []Cue{Cue(9)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			b := NewBell(&buf)
			b.SetMuted(tt.muted)
			for _, c := range tt.cues {
				b.Play(c)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Play() wrote %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestBellUnmute(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)
	b.SetMuted(true)
	b.Play(CueHit)
	b.SetMuted(false)
	b.Play(CueHit)

	if buf.String() != "\a" {
		t.Errorf("Play() wrote %q, expected a single bell", buf.String())
	}
	if b.Muted() {
		t.Error("Muted() = true, expected false")
	}
}

func TestCueString(t *testing.T) {
	if CueHit.String() != "hit" || CueMiss.String() != "miss" || Cue(7).String() != "unknown" {
		t.Error("unexpected cue names")
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Play(CueMiss)
	r.Play(CueHit)

	got := r.Cues()
	if len(got) != 2 || got[0] != CueMiss || got[1] != CueHit {
		t.Errorf("Cues() = %v, expected [miss hit]", got)
	}
}
