package pipeline

import "github.com/pkg/errors"

// State of a pipeline run
type State string

const (
	Idle                 State = "Idle"
	VerifyingCredentials State = "VerifyingCredentials"
	Building             State = "Building"
	StagingConfig        State = "StagingConfig"
	Deploying            State = "Deploying"
	Succeeded            State = "Succeeded"
	Failed               State = "Failed"
)

// IsTerminal reports whether a run in state s has finished
func IsTerminal(s State) bool {
	return s == Succeeded || s == Failed
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case Idle:
		return to == VerifyingCredentials
	case VerifyingCredentials:
		return to == Building || to == Failed
	case Building:
		return to == StagingConfig || to == Failed
	case StagingConfig:
		return to == Deploying || to == Failed
	case Deploying:
		return to == Succeeded || to == Failed
	default:
		return false
	}
}

func (p *Pipeline) transition(to State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !isAllowedTransition(p.state, to) {
		return errors.Errorf("disallowed transition %s -> %s", p.state, to)
	}
	p.state = to
	return nil
}

// State is where the current or last run is
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
