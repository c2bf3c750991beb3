// Package plan turns a validated run configuration into an immutable
// execution plan: one fully-resolved job descriptor per sample, with every
// relative path rewritten against a base directory and every named resource
// alias replaced by its locator.  Resolution is a pure transformation; the
// resulting plan can be shared across any number of downstream stage runners
// without locking.
package plan

import (
	"path/filepath"

	"github.com/google/uuid"
	"github.com/grailbio/pipeline/config"
	"github.com/grailbio/pipeline/resource"
)

// JobDescriptor carries everything a stage runner needs to process one
// sample.  All paths are absolute or URL-style locators.  Descriptors are
// value types and must not be mutated after resolution.
type JobDescriptor struct {
	// Sample is the unique sample description from the run document.
	Sample string
	// AnalysisType selects the downstream analysis, e.g. "variant2".
	AnalysisType string
	// InputFiles are the resolved read files, in document order.
	InputFiles []string
	// Metadata is a copy of the sample's free-form annotations.
	Metadata map[string]string
	// Aligner and VariantCaller are the validated tool identifiers.
	Aligner       string
	VariantCaller string
	// Reference locates the genome build resources for the sample.
	Reference resource.Reference
	// VariantRegions is the resolved BED locator restricting calling, empty
	// if the whole genome is called.
	VariantRegions string
	// ValidateTruthSet and ValidateRegions are the resolved validation
	// inputs.  Either both or neither are set.
	ValidateTruthSet string
	ValidateRegions  string
	// UploadDir is where final outputs for the sample are published.
	UploadDir string
}

// ExecutionPlan is the ordered, immutable result of resolving one run
// document.
type ExecutionPlan struct {
	// RunID uniquely identifies one resolution of a run document.
	RunID string
	// BaseDir is the absolute directory relative paths were anchored at.
	BaseDir string
	// Jobs holds one descriptor per sample, in document order.
	Jobs []JobDescriptor
}

// Resolve produces an execution plan from a parsed and validated config.
// Relative paths are rewritten against baseDir; genome-build and region-set
// aliases are resolved through reg.  Unknown aliases yield a
// *resource.AliasError.  Resolve has no side effects and does not touch the
// filesystem.
func Resolve(c *config.Config, baseDir string, reg *resource.Registry) (*ExecutionPlan, error) {
	if !config.IsRemote(baseDir) && !filepath.IsAbs(baseDir) {
		abs, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, err
		}
		baseDir = abs
	}
	p := &ExecutionPlan{
		RunID:   uuid.New().String(),
		BaseDir: baseDir,
		Jobs:    make([]JobDescriptor, 0, len(c.Samples)),
	}
	for _, s := range c.Samples {
		ref, err := reg.Build(s.GenomeBuild)
		if err != nil {
			return nil, err
		}
		job := JobDescriptor{
			Sample:           s.Description,
			AnalysisType:     s.AnalysisType,
			Aligner:          s.Algorithm.Aligner,
			VariantCaller:    s.Algorithm.VariantCaller,
			Reference:        ref,
			ValidateTruthSet: config.Abspath(baseDir, s.Algorithm.ValidateTruthSet),
			ValidateRegions:  config.Abspath(baseDir, s.Algorithm.ValidateRegions),
			UploadDir:        config.Abspath(baseDir, c.UploadTarget.Dir),
		}
		job.InputFiles = make([]string, len(s.InputFiles))
		for i, f := range s.InputFiles {
			job.InputFiles[i] = config.Abspath(baseDir, f)
		}
		if len(s.Metadata) > 0 {
			job.Metadata = make(map[string]string, len(s.Metadata))
			for k, v := range s.Metadata {
				job.Metadata[k] = v
			}
		}
		if vr := s.Algorithm.VariantRegions; vr != "" {
			if config.IsRegionPath(vr) {
				job.VariantRegions = config.Abspath(baseDir, vr)
			} else {
				locator, err := reg.Regions(vr)
				if err != nil {
					return nil, err
				}
				job.VariantRegions = locator
			}
		}
		p.Jobs = append(p.Jobs, job)
	}
	return p, nil
}

