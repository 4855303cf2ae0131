package tui

import (
	"fmt"
	"io"
	"sync"
)

// StepStatus represents the state of a progress step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepError
)

// ProgressStep represents a single preparation step
type ProgressStep struct {
	Name   string
	Status StepStatus
	Detail string // shown after completion or failure
}

// StepDisplay shows the preparation steps that run before a batch
type StepDisplay struct {
	out   io.Writer
	mode  ProgressMode
	steps []ProgressStep
	mu    sync.Mutex
	drawn bool
}

// NewStepDisplay creates a new step display
func NewStepDisplay(out io.Writer, mode ProgressMode, steps ...string) *StepDisplay {
	sd := &StepDisplay{
		out:   out,
		mode:  mode,
		steps: make([]ProgressStep, len(steps)),
	}
	for i, name := range steps {
		sd.steps[i] = ProgressStep{Name: name, Status: StepPending}
	}
	return sd
}

// StartStep marks a step as running
func (p *StepDisplay) StartStep(index int) {
	p.set(index, StepRunning, "")
}

// CompleteStep marks a step as complete with an optional detail
func (p *StepDisplay) CompleteStep(index int, detail string) {
	p.set(index, StepComplete, detail)
}

// FailStep marks a step as failed
func (p *StepDisplay) FailStep(index int, err string) {
	p.set(index, StepError, err)
}

func (p *StepDisplay) set(index int, status StepStatus, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.steps) {
		return
	}
	p.steps[index].Status = status
	p.steps[index].Detail = detail

	switch p.mode {
	case ProgressRedraw:
		p.redraw()
	case ProgressLines:
		// Only settled steps are worth a line
		if status != StepRunning {
			fmt.Fprintln(p.out, p.line(index))
		}
	}
}

func (p *StepDisplay) line(i int) string {
	step := p.steps[i]
	stepNum := fmt.Sprintf("[%d/%d]", i+1, len(p.steps))

	var status string
	switch step.Status {
	case StepPending:
		status = " "
	case StepRunning:
		status = "…"
	case StepComplete:
		status = "✓"
	case StepError:
		status = "✗"
	}

	s := fmt.Sprintf("%s %s... %s", stepNum, step.Name, status)
	if step.Detail != "" {
		s += " " + step.Detail
	}
	return s
}

func (p *StepDisplay) redraw() {
	if p.drawn {
		fmt.Fprintf(p.out, "\033[%dA\033[J", len(p.steps))
	}
	for i := range p.steps {
		fmt.Fprintln(p.out, p.line(i))
	}
	p.drawn = true
}
