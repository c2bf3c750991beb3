package stage

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/pipeline/plan"
)

// CommandFunc builds the argv for one stage invocation from a job.  Returning
// an empty argv skips the stage for that job (e.g. validation when the sample
// has no truth set).
type CommandFunc func(job plan.JobDescriptor) []string

// ExecFunc runs an external command.  Production drivers shell out; tests
// substitute fakes.
type ExecFunc func(ctx context.Context, argv []string) error

// ExternalRunner adapts an external tool to the Runner interface.
type ExternalRunner struct {
	name    string
	command CommandFunc
	exec    ExecFunc
}

// NewExternalRunner returns a runner named name that builds invocations with
// command and executes them with exec.
func NewExternalRunner(name string, command CommandFunc, exec ExecFunc) *ExternalRunner {
	return &ExternalRunner{name: name, command: command, exec: exec}
}

// Name implements Runner.
func (r *ExternalRunner) Name() string { return r.name }

// Run implements Runner.
func (r *ExternalRunner) Run(ctx context.Context, job plan.JobDescriptor) error {
	argv := r.command(job)
	if len(argv) == 0 {
		log.Debug.Printf("stage %s: sample %s: skipped", r.name, job.Sample)
		return nil
	}
	log.Debug.Printf("stage %s: sample %s: %v", r.name, job.Sample, argv)
	if err := r.exec(ctx, argv); err != nil {
		return &Error{Stage: r.name, Sample: job.Sample, Err: err}
	}
	return nil
}

// AlignCommand builds the aligner invocation for a job.
func AlignCommand(job plan.JobDescriptor) []string {
	argv := []string{job.Aligner}
	if job.Aligner == "bwa" {
		argv = append(argv, "mem")
	}
	argv = append(argv, job.Reference.Fasta)
	return append(argv, job.InputFiles...)
}

// CallCommand builds the variant-caller invocation for a job.
func CallCommand(job plan.JobDescriptor) []string {
	argv := []string{job.VariantCaller, "--reference", job.Reference.Fasta, "--sample", job.Sample}
	if job.VariantRegions != "" {
		argv = append(argv, "--regions", job.VariantRegions)
	}
	return argv
}

// ValidateCommand builds the truth-set validation invocation for a job, or
// nil when the sample has no validation inputs.
func ValidateCommand(job plan.JobDescriptor) []string {
	if job.ValidateTruthSet == "" {
		return nil
	}
	return []string{
		"rtg", "vcfeval",
		"--baseline", job.ValidateTruthSet,
		"--bed-regions", job.ValidateRegions,
		"--sample", job.Sample,
	}
}

// DefaultRunners returns the standard stage sequence (align, call, validate)
// wired to exec.
func DefaultRunners(exec ExecFunc) []Runner {
	return []Runner{
		NewExternalRunner("align", AlignCommand, exec),
		NewExternalRunner("call", CallCommand, exec),
		NewExternalRunner("validate", ValidateCommand, exec),
	}
}
