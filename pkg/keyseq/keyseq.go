// Package keyseq detects a secret key sequence typed on the landing page.
package keyseq

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

const DefaultTimeout = 3 * time.Second

// Step lists the key or code values accepted for one position of the sequence.
type Step []string

func (s Step) Matches(key, code string) bool {
	for _, want := range s {
		if strings.EqualFold(want, key) || strings.EqualFold(want, code) {
			return true
		}
	}
	return false
}

type Sequence struct {
	Steps   []Step
	Timeout time.Duration
	// Target is where the page navigates once the sequence is complete.
	Target string
}

// Konami is Up Up Down Down Left Right Left Right B A, opening the admin panel.
func Konami() Sequence {
	return Sequence{
		Steps: []Step{
			{"ArrowUp"}, {"ArrowUp"},
			{"ArrowDown"}, {"ArrowDown"},
			{"ArrowLeft"}, {"ArrowRight"},
			{"ArrowLeft"}, {"ArrowRight"},
			{"b", "KeyB"}, {"a", "KeyA"},
		},
		Timeout: DefaultTimeout,
		Target:  "/portal",
	}
}

type sequenceJSON struct {
	Steps     []Step `json:"steps"`
	TimeoutMS int64  `json:"timeoutMs"`
	Target    string `json:"target"`
}

func (s Sequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(sequenceJSON{
		Steps:     s.Steps,
		TimeoutMS: s.Timeout.Milliseconds(),
		Target:    s.Target,
	})
}

func (s *Sequence) UnmarshalJSON(b []byte) error {
	var raw sequenceJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.Steps = raw.Steps
	s.Timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	s.Target = raw.Target
	return nil
}

// Event is one keydown. InInput marks keys typed into a text field.
type Event struct {
	Key     string
	Code    string
	InInput bool
	At      time.Time
}

// Detector follows a Sequence across keystrokes. A wrong key, or a pause longer than the
// sequence timeout, starts over from the first step.
type Detector struct {
	mu    sync.Mutex
	seq   Sequence
	index int
	last  time.Time
	now   func() time.Time
}

func NewDetector(seq Sequence) *Detector {
	if seq.Timeout <= 0 {
		seq.Timeout = DefaultTimeout
	}
	return &Detector{seq: seq, now: time.Now}
}

// Feed consumes one key and reports whether it completed the sequence.
func (d *Detector) Feed(ev Event) bool {
	if ev.InInput || len(d.seq.Steps) == 0 {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	at := ev.At
	if at.IsZero() {
		at = d.now()
	}
	if d.index > 0 && at.Sub(d.last) > d.seq.Timeout {
		d.index = 0
	}

	if !d.seq.Steps[d.index].Matches(ev.Key, ev.Code) {
		d.index = 0
		return false
	}

	d.index++
	d.last = at
	if d.index == len(d.seq.Steps) {
		d.index = 0
		return true
	}
	return false
}

// Progress is the number of steps matched so far.
func (d *Detector) Progress() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index
}

func (d *Detector) Reset() {
	d.mu.Lock()
	d.index = 0
	d.mu.Unlock()
}
