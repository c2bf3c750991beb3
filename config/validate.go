package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/pipeline/resource"
)

// Options controls Validate.
type Options struct {
	// BaseDir anchors relative paths in the document for existence checks.
	// Empty means the process working directory.
	BaseDir string
	// Registry supplies the known tool capability sets and named resources.
	// Nil skips tool and alias checking.
	Registry *resource.Registry
	// SkipFileChecks disables filesystem probes (existence, gzip magic,
	// leading FASTQ record).  Intended for resolving documents whose inputs
	// live on a machine other than the one doing the validation.
	SkipFileChecks bool
}

// Warning is a non-fatal finding attached to a field.
type Warning struct {
	Field string
	Msg   string
}

func (w Warning) String() string { return w.Field + ": " + w.Msg }

// Report collects the warnings produced while validating one document.
type Report struct {
	Warnings []Warning
}

func (r *Report) warnf(field, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Warning{Field: field, Msg: fmt.Sprintf(format, args...)})
}

// Validate checks the semantic constraints of a parsed run document:
// uniqueness of sample descriptions, readability of input files, pairing of
// the validation fields, and known-ness of the aligner and variant caller.
// Hard violations are returned as a *ValidationError; softer findings
// (unknown region alias, suspicious file contents) land in the report.
func Validate(ctx context.Context, c *Config, opts Options) (*Report, error) {
	report := &Report{}
	var violations []Violation
	addf := func(field, format string, args ...interface{}) {
		violations = append(violations, Violation{Field: field, Msg: fmt.Sprintf(format, args...)})
	}

	firstSeen := map[string]int{}
	for i, s := range c.Samples {
		field := func(name string) string {
			return fmt.Sprintf("sampleEntries[%d].%s", i, name)
		}
		if prev, ok := firstSeen[s.Description]; ok {
			addf(field("description"), "duplicate description %q (also used by sampleEntries[%d])",
				s.Description, prev)
		} else {
			firstSeen[s.Description] = i
		}

		for j, path := range s.InputFiles {
			inputField := fmt.Sprintf("sampleEntries[%d].inputFiles[%d]", i, j)
			resolved := Abspath(opts.BaseDir, path)
			if opts.SkipFileChecks {
				continue
			}
			if _, err := file.Stat(ctx, resolved); err != nil {
				addf(inputField, "unreadable input file %s: %v", path, err)
				continue
			}
			probeInput(ctx, resolved, inputField, report)
		}

		a := s.Algorithm
		if a.ValidateTruthSet != "" && a.ValidateRegions == "" {
			addf(field("algorithm.validateRegions"),
				"validateTruthSet is set, but validateRegions is empty")
		}
		if opts.Registry != nil {
			if !opts.Registry.KnownAligner(a.Aligner) {
				msg := fmt.Sprintf("unknown aligner %q", a.Aligner)
				if alt := opts.Registry.SuggestAligner(a.Aligner); alt != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", alt)
				}
				addf(field("algorithm.aligner"), "%s", msg)
			}
			if !opts.Registry.KnownCaller(a.VariantCaller) {
				msg := fmt.Sprintf("unknown variantCaller %q", a.VariantCaller)
				if alt := opts.Registry.SuggestCaller(a.VariantCaller); alt != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", alt)
				}
				addf(field("algorithm.variantCaller"), "%s", msg)
			}
			if _, err := opts.Registry.Build(s.GenomeBuild); err != nil {
				// Resolution fails hard on this; at validation time the
				// registry may not be fully populated yet.
				report.warnf(field("genomeBuild"), "%v", err)
			}
			if a.VariantRegions != "" && !IsRegionPath(a.VariantRegions) &&
				!opts.Registry.HasRegions(a.VariantRegions) {
				report.warnf(field("algorithm.variantRegions"),
					"unknown region alias %q", a.VariantRegions)
			}
		}

		if !opts.SkipFileChecks {
			checkOptionalFile(ctx, opts.BaseDir, a.ValidateTruthSet,
				field("algorithm.validateTruthSet"), report)
			checkOptionalFile(ctx, opts.BaseDir, a.ValidateRegions,
				field("algorithm.validateRegions"), report)
			if a.VariantRegions != "" && IsRegionPath(a.VariantRegions) {
				resolved := Abspath(opts.BaseDir, a.VariantRegions)
				if berr := resource.ValidateBED(ctx, resolved); berr != nil {
					report.warnf(field("algorithm.variantRegions"), "%v", berr)
				}
			}
		}
	}

	if len(violations) > 0 {
		return report, &ValidationError{Violations: violations}
	}
	return report, nil
}

// checkOptionalFile warns if an optional referenced file is missing or, for
// .gz paths, not actually gzip-compressed.
func checkOptionalFile(ctx context.Context, baseDir, path, field string, report *Report) {
	if path == "" {
		return
	}
	resolved := Abspath(baseDir, path)
	if _, err := file.Stat(ctx, resolved); err != nil {
		report.warnf(field, "unreadable file %s: %v", path, err)
		return
	}
	if strings.HasSuffix(path, ".gz") {
		if err := checkGzip(ctx, resolved); err != nil {
			report.warnf(field, "%s: %v", path, err)
		}
	}
}

