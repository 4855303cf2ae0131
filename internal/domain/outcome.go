package domain

import "time"

// ConversionOutcome is the result of converting one source file
type ConversionOutcome struct {
	Source   string
	Output   string // empty on failure
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the conversion produced an output file
func (o ConversionOutcome) Succeeded() bool {
	return o.Err == nil
}

// Tally counts successes and failures within one batch
type Tally struct {
	Succeeded int
	Failed    int
}

// Total returns the number of files accounted for
func (t Tally) Total() int {
	return t.Succeeded + t.Failed
}

// Record adds one outcome to the tally
func (t *Tally) Record(o ConversionOutcome) {
	if o.Succeeded() {
		t.Succeeded++
		return
	}
	t.Failed++
}
