// Package pipeline resolves declarative sequencing-run configurations into
// execution plans.  It is the single entry point pipeline drivers consume:
// point ResolveFile at a run document and get back an immutable, fully
// resolved plan ready for the stage runners in package stage.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/pipeline/config"
	"github.com/grailbio/pipeline/plan"
	"github.com/grailbio/pipeline/resource"
	"github.com/pkg/errors"
)

// Options controls ResolveFile.
type Options struct {
	// BaseDir anchors relative paths in the document.  Empty means the
	// directory containing the document.
	BaseDir string
	// Registry supplies known tools and named resources.  Nil means a fresh
	// registry with the default tool capability sets and no genome builds.
	Registry *resource.Registry
	// SkipFileChecks disables filesystem probes during validation.
	SkipFileChecks bool
}

// ResolveFile parses, validates, and resolves the run document at path.
// Validation warnings are logged; hard violations abort with the error
// taxonomy of package config.  On success the returned plan carries one job
// descriptor per sample, in document order.
func ResolveFile(ctx context.Context, path string, opts Options) (*plan.ExecutionPlan, error) {
	data, err := file.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read run config %s", path)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(path)
	}
	reg := opts.Registry
	if reg == nil {
		reg = resource.NewRegistry()
	}
	report, err := config.Validate(ctx, cfg, config.Options{
		BaseDir:        baseDir,
		Registry:       reg,
		SkipFileChecks: opts.SkipFileChecks,
	})
	if report != nil {
		for _, w := range report.Warnings {
			log.Error.Printf("%s: %s", path, w)
		}
	}
	if err != nil {
		return nil, err
	}
	return plan.Resolve(cfg, baseDir, reg)
}
