package config

import (
	"fmt"
	"strings"
)

// ValidationError lists every problem found in a configuration
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].Error()
	}
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("%d configuration problems: %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is and errors.As reach each problem
func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

type problems []error

func (p *problems) add(err error) {
	if err != nil {
		*p = append(*p, err)
	}
}

// require records a problem when ok is false
func (p *problems) require(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ValidationError{Problems: p}
}
