// Package adminui holds the state of the admin panel independently of any rendering: the
// edit form state machine and the ordered video list.
package adminui

import (
	"github.com/pkg/errors"
)

type State int

const (
	Idle State = iota
	Editing
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "error"
	}
	return "unknown"
}

var ErrInvalidTransition = errors.New("invalid form transition")

var transitions = map[State][]State{
	Idle:       {Editing},
	Editing:    {Submitting, Idle},
	Submitting: {Success, Failed},
	Success:    {Idle},
	Failed:     {Editing, Idle},
}

// Form tracks one modal form and the record it edits.
type Form struct {
	state  State
	target string
	err    error
}

func (f *Form) State() State   { return f.state }
func (f *Form) Target() string { return f.target }

// Err is the error of the last failed submission.
func (f *Form) Err() error { return f.err }

func (f *Form) move(next State) error {
	for _, s := range transitions[f.state] {
		if s == next {
			f.state = next
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidTransition, "%s -> %s", f.state, next)
}

// Edit opens the form on target. From the error state it reopens the same target for a
// retry and target may be empty.
func (f *Form) Edit(target string) error {
	prev := f.state
	if err := f.move(Editing); err != nil {
		return err
	}
	if prev == Idle || target != "" {
		f.target = target
	}
	f.err = nil
	return nil
}

func (f *Form) Submit() error {
	return f.move(Submitting)
}

func (f *Form) Succeed() error {
	return f.move(Success)
}

func (f *Form) Fail(err error) error {
	if e := f.move(Failed); e != nil {
		return e
	}
	f.err = err
	return nil
}

// Cancel abandons an edit.
func (f *Form) Cancel() error {
	if f.state != Editing {
		return errors.Wrapf(ErrInvalidTransition, "cancel from %s", f.state)
	}
	return f.close()
}

// Close dismisses the form after a success or a failure.
func (f *Form) Close() error {
	if f.state != Success && f.state != Failed {
		return errors.Wrapf(ErrInvalidTransition, "close from %s", f.state)
	}
	return f.close()
}

func (f *Form) close() error {
	if err := f.move(Idle); err != nil {
		return err
	}
	f.target = ""
	f.err = nil
	return nil
}

// Run submits the form, calls fn and records its outcome. It returns fn's error, or a
// transition error when the form was not being edited.
func (f *Form) Run(fn func() error) error {
	if err := f.Submit(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		_ = f.Fail(err)
		return err
	}
	return f.Succeed()
}
