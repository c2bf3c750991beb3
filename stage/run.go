package stage

import (
	"context"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/pipeline/plan"
)

// Driver runs a fixed stage sequence over every job in a plan.
type Driver struct {
	// Runners is the stage sequence applied, in order, to each sample.
	Runners []Runner
	// Parallelism bounds the number of samples processed concurrently.
	// 0 means runtime.NumCPU().
	Parallelism int
}

// Run processes all jobs in the plan.  Stages for one sample run in order; a
// failed stage abandons the remaining stages for that sample but other
// samples still run to completion.  Run returns the first error encountered.
func (d *Driver) Run(ctx context.Context, p *plan.ExecutionPlan) error {
	jobs := p.Jobs
	if len(jobs) == 0 {
		return nil
	}
	parallelism := d.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(jobs) {
		parallelism = len(jobs)
	}
	e := errors.Once{}
	traverseErr := traverse.Each(parallelism, func(workerIdx int) error {
		startIdx := (workerIdx * len(jobs)) / parallelism
		endIdx := ((workerIdx + 1) * len(jobs)) / parallelism
		for _, job := range jobs[startIdx:endIdx] {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := d.runJob(ctx, job); err != nil {
				log.Error.Printf("sample %s: %v", job.Sample, err)
				e.Set(err)
				continue
			}
			log.Printf("sample %s: all stages complete", job.Sample)
		}
		return nil
	})
	e.Set(traverseErr)
	return e.Err()
}

func (d *Driver) runJob(ctx context.Context, job plan.JobDescriptor) error {
	for _, r := range d.Runners {
		if err := r.Run(ctx, job); err != nil {
			return err
		}
	}
	return nil
}
