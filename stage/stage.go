// Package stage invokes the external per-sample pipeline stages -- alignment,
// variant calling, validation -- described by an execution plan.  The stages
// themselves are external tools; this package only builds their invocations
// and fans the work out across samples.
package stage

import (
	"context"
	"fmt"

	"github.com/grailbio/pipeline/plan"
)

// Runner executes one pipeline stage for one sample.
type Runner interface {
	// Name identifies the stage in errors and logs.
	Name() string
	// Run executes the stage for one job.  Run must be safe for concurrent
	// invocation with distinct jobs.
	Run(ctx context.Context, job plan.JobDescriptor) error
}

// Error wraps a stage failure with the stage and sample that produced it.
type Error struct {
	Stage  string
	Sample string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("stage %s: sample %s: %v", e.Stage, e.Sample, e.Err)
}

// Cause returns the underlying error.
func (e *Error) Cause() error { return e.Err }
