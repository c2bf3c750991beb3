package main

// bio-pipeline resolves a declarative sequencing-run configuration into an
// execution plan and optionally drives the external per-sample stages.
//
// Example 1: validate a run document and print the plan summary.
//
//    bio-pipeline -genome-dir /ref/genomes -dry-run run.yaml
//
// Example 2: resolve, persist the plan, and run the stages.
//
//    bio-pipeline -genome-dir /ref/genomes -plan-output run.plan run.yaml

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/pipeline"
	"github.com/grailbio/pipeline/plan"
	"github.com/grailbio/pipeline/resource"
	"github.com/grailbio/pipeline/stage"
)

var (
	baseDirFlag     = flag.String("base-dir", "", "Directory relative paths in the run document are anchored at. Defaults to the directory containing the document.")
	genomeDirFlag   = flag.String("genome-dir", "", "Genome directory holding <build>/seq/<build>.fa references and <build>/regions/<alias>.bed region sets")
	planOutputFlag  = flag.String("plan-output", "", "If set, write the resolved plan to this path")
	summaryFlag     = flag.String("summary", "", "If set, write a per-sample TSV summary to this path")
	dryRunFlag      = flag.Bool("dry-run", false, "Resolve and report only; do not invoke any stage")
	parallelismFlag = flag.Int("parallelism", 0, "Maximum number of samples processed concurrently; 0 = runtime.NumCPU()")
	skipChecksFlag  = flag.Bool("skip-file-checks", false, "Skip input-file existence and content probes during validation")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] runconfig.yaml\n", os.Args[0])
	flag.PrintDefaults()
	os.Exit(2)
}

func execCommand(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func main() {
	flag.Usage = usage
	cleanup := grail.Init()
	defer cleanup()
	if flag.NArg() != 1 {
		usage()
	}
	configPath := flag.Arg(0)
	ctx := vcontext.Background()

	reg := resource.NewRegistry()
	if *genomeDirFlag != "" {
		if err := reg.LoadDir(ctx, *genomeDirFlag); err != nil {
			log.Fatalf("load genome dir %s: %v", *genomeDirFlag, err)
		}
		if builds := reg.Builds(); len(builds) > 0 {
			log.Printf("registered genome builds: %v", builds)
		}
	}
	p, err := pipeline.ResolveFile(ctx, configPath, pipeline.Options{
		BaseDir:        *baseDirFlag,
		Registry:       reg,
		SkipFileChecks: *skipChecksFlag,
	})
	if err != nil {
		log.Fatalf("%s: %v", configPath, err)
	}
	log.Printf("run %s: resolved %d samples", p.RunID, len(p.Jobs))

	if *planOutputFlag != "" {
		if err := plan.Write(ctx, *planOutputFlag, p); err != nil {
			log.Fatalf("write plan %s: %v", *planOutputFlag, err)
		}
	}
	if *summaryFlag != "" {
		if err := plan.WriteSummaryTSV(ctx, *summaryFlag, p); err != nil {
			log.Fatalf("write summary %s: %v", *summaryFlag, err)
		}
	}
	if *dryRunFlag {
		for _, job := range p.Jobs {
			log.Printf("sample %s: %s + %s on %s, %d inputs -> %s",
				job.Sample, job.Aligner, job.VariantCaller, job.Reference.Build,
				len(job.InputFiles), job.UploadDir)
		}
		return
	}
	driver := stage.Driver{
		Runners:     stage.DefaultRunners(execCommand),
		Parallelism: *parallelismFlag,
	}
	if err := driver.Run(ctx, p); err != nil {
		log.Fatalf("run %s: %v", p.RunID, err)
	}
	log.Printf("run %s: all samples complete", p.RunID)
}
