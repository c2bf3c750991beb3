package pipeline_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/pipeline"
	"github.com/grailbio/pipeline/config"
	"github.com/grailbio/pipeline/resource"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const runDoc = `
uploadTarget:
  dir: final
sampleEntries:
  - inputFiles: [reads/NA12878_1.fastq.gz, reads/NA12878_2.fastq.gz]
    description: NA12878-1
    metadata:
      sex: female
    analysisType: variant2
    genomeBuild: GRCh37
    algorithm:
      aligner: bwa
      variantCaller: gatk-haplotype
  - inputFiles: [reads/NA24385_1.fastq.gz, reads/NA24385_2.fastq.gz]
    description: NA24385-1
    analysisType: variant2
    genomeBuild: GRCh37
    algorithm:
      aligner: bwa
      variantCaller: gatk-haplotype
`

func setupRun(t *testing.T, dir, doc string) string {
	t.Helper()
	for _, f := range []string{
		"reads/NA12878_1.fastq.gz", "reads/NA12878_2.fastq.gz",
		"reads/NA24385_1.fastq.gz", "reads/NA24385_2.fastq.gz",
	} {
		path := filepath.Join(dir, f)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
		out, err := os.Create(path)
		assert.NoError(t, err)
		gz := gzip.NewWriter(out)
		_, err = gz.Write([]byte("@read1\nACGTACGT\n+\nIIIIIIII\n"))
		assert.NoError(t, err)
		assert.NoError(t, gz.Close())
		assert.NoError(t, out.Close())
	}
	configPath := filepath.Join(dir, "run.yaml")
	assert.NoError(t, ioutil.WriteFile(configPath, []byte(doc), 0600))
	return configPath
}

func TestResolveFile(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	configPath := setupRun(t, dir, runDoc)

	reg := resource.NewRegistry()
	reg.RegisterBuild(resource.Reference{Build: "GRCh37", Fasta: "/ref/GRCh37/seq/GRCh37.fa"})
	p, err := pipeline.ResolveFile(ctx, configPath, pipeline.Options{Registry: reg})
	assert.NoError(t, err)

	expect.EQ(t, len(p.Jobs), 2)
	expect.EQ(t, p.Jobs[0].Sample, "NA12878-1")
	expect.EQ(t, p.Jobs[1].Sample, "NA24385-1")
	for _, job := range p.Jobs {
		expect.EQ(t, job.Aligner, "bwa")
		expect.EQ(t, job.VariantCaller, "gatk-haplotype")
		for _, f := range job.InputFiles {
			if !strings.HasPrefix(f, dir) {
				t.Errorf("input %q not anchored under %q", f, dir)
			}
		}
		expect.EQ(t, job.UploadDir, filepath.Join(dir, "final"))
	}
}

func TestResolveFileDuplicateDescription(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	doc := strings.Replace(runDoc, "NA24385-1", "NA12878-1", 1)
	configPath := setupRun(t, dir, doc)

	reg := resource.NewRegistry()
	reg.RegisterBuild(resource.Reference{Build: "GRCh37", Fasta: "/ref/GRCh37/seq/GRCh37.fa"})
	_, err := pipeline.ResolveFile(ctx, configPath, pipeline.Options{Registry: reg})
	if _, ok := err.(*config.ValidationError); !ok {
		t.Fatalf("expected *config.ValidationError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), `duplicate description "NA12878-1"`) {
		t.Errorf("error %q does not cite the duplicate", err)
	}
}

func TestResolveFileSchemaError(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	configPath := filepath.Join(dir, "run.yaml")
	assert.NoError(t, ioutil.WriteFile(configPath, []byte("sampleEntries: []\n"), 0600))
	_, err := pipeline.ResolveFile(ctx, configPath, pipeline.Options{})
	if _, ok := err.(*config.SchemaError); !ok {
		t.Fatalf("expected *config.SchemaError, got %T: %v", err, err)
	}
}
