// Package config parses and validates pipeline run documents.  A run document
// is a YAML file describing one sequencing run: the files to read, per-sample
// metadata, the genome build, and the aligner/variant-caller combination to
// use.  For example:
//
// uploadTarget:
//   dir: final
// sampleEntries:
//   - inputFiles: [reads/NA12878_1.fastq.gz, reads/NA12878_2.fastq.gz]
//     description: NA12878-1
//     metadata:
//       sex: female
//     analysisType: variant2
//     genomeBuild: GRCh37
//     algorithm:
//       aligner: bwa
//       variantCaller: gatk-haplotype
//
// The document is parsed once at pipeline start, validated, and handed to
// package plan for resolution into an execution plan.  It is never mutated
// afterwards.
package config

import (
	"fmt"

	yaml "gopkg.in/yaml.v2"
)

// Config is the top-level run document.
type Config struct {
	// UploadTarget names the directory final outputs are published to.
	UploadTarget UploadTarget `yaml:"uploadTarget"`
	// Samples lists the samples in the run, in document order.  It must be
	// non-empty.
	Samples []Sample `yaml:"sampleEntries"`
}

// UploadTarget describes where final per-sample outputs land.  Dir may be a
// local path or a URL-style locator such as s3://bucket/prefix.
type UploadTarget struct {
	Dir string `yaml:"dir"`
}

// Sample describes one sequencing sample.
type Sample struct {
	// InputFiles are the read files for the sample, typically a paired-end
	// R1/R2 FASTQ pair, in document order.
	InputFiles []string `yaml:"inputFiles"`
	// Description is the sample label.  It must be unique within the
	// document.
	Description string `yaml:"description"`
	// Metadata carries free-form sample annotations (e.g. sex: female).
	Metadata map[string]string `yaml:"metadata,omitempty"`
	// AnalysisType selects the downstream analysis, e.g. "variant2".
	AnalysisType string `yaml:"analysisType"`
	// GenomeBuild names the reference genome, e.g. "GRCh37".  It is an
	// alias resolved through a resource.Registry, not a path.
	GenomeBuild string    `yaml:"genomeBuild"`
	Algorithm   Algorithm `yaml:"algorithm"`
}

// Algorithm selects the tools and optional validation inputs for a sample.
type Algorithm struct {
	// Aligner is the read aligner identifier, e.g. "bwa".
	Aligner string `yaml:"aligner"`
	// VariantCaller is the variant caller identifier, e.g. "gatk-haplotype".
	VariantCaller string `yaml:"variantCaller"`
	// ValidateTruthSet is an optional path to a truth-set VCF the calls are
	// validated against.  If set, ValidateRegions must also be set.
	ValidateTruthSet string `yaml:"validateTruthSet,omitempty"`
	// ValidateRegions is the BED file restricting validation to confident
	// regions of the truth set.
	ValidateRegions string `yaml:"validateRegions,omitempty"`
	// VariantRegions optionally restricts calling to a region set.  The
	// value is either a BED path or a named region-set alias resolved
	// through a resource.Registry.
	VariantRegions string `yaml:"variantRegions,omitempty"`
}

// Parse deserializes a run document.  Unknown fields, type mismatches, and
// missing required fields yield a *SchemaError.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, &SchemaError{Msg: err.Error()}
	}
	if err := checkRequired(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Marshal serializes a config back to YAML.  Parse(Marshal(c)) is equal to c
// for any config accepted by Parse.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

func checkRequired(c *Config) error {
	if len(c.Samples) == 0 {
		return &SchemaError{Field: "sampleEntries", Msg: "must list at least one sample"}
	}
	for i, s := range c.Samples {
		field := func(name string) string {
			return fmt.Sprintf("sampleEntries[%d].%s", i, name)
		}
		if s.Description == "" {
			return &SchemaError{Field: field("description"), Msg: "required"}
		}
		if len(s.InputFiles) == 0 {
			return &SchemaError{Field: field("inputFiles"), Msg: "must list at least one read file"}
		}
		for j, f := range s.InputFiles {
			if f == "" {
				return &SchemaError{Field: fmt.Sprintf("sampleEntries[%d].inputFiles[%d]", i, j), Msg: "empty path"}
			}
		}
		if s.AnalysisType == "" {
			return &SchemaError{Field: field("analysisType"), Msg: "required"}
		}
		if s.GenomeBuild == "" {
			return &SchemaError{Field: field("genomeBuild"), Msg: "required"}
		}
		if s.Algorithm.Aligner == "" {
			return &SchemaError{Field: field("algorithm.aligner"), Msg: "required"}
		}
		if s.Algorithm.VariantCaller == "" {
			return &SchemaError{Field: field("algorithm.variantCaller"), Msg: "required"}
		}
	}
	return nil
}
