package counterfactual

import (
	"errors"
	"fmt"
)

// ErrNoUsableInput is returned by the prompt builders when every phase text is
// blank. Callers must not invoke the completion service in that case.
var ErrNoUsableInput = errors.New("no usable input: all phase texts are empty")

// UnparsableOutputError indicates that the completion service returned text
// that survived neither the strict JSON parse nor the relaxed-literal retry.
type UnparsableOutputError struct {
	Detail string
	Err    error
}

func (e *UnparsableOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparsable completion output: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("unparsable completion output: %s", e.Detail)
}

func (e *UnparsableOutputError) Unwrap() error { return e.Err }
