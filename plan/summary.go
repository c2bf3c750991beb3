package plan

import (
	"context"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// WriteSummaryTSV writes a one-line-per-sample summary of the plan, for
// humans and for downstream bookkeeping.
func WriteSummaryTSV(ctx context.Context, path string, p *ExecutionPlan) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewWriter(out.Writer(ctx))
	for _, col := range []string{
		"#sample", "analysis", "build", "aligner", "caller", "n_inputs", "upload_dir",
	} {
		w.WriteString(col)
	}
	if err = w.EndLine(); err != nil {
		return err
	}
	for _, job := range p.Jobs {
		w.WriteString(job.Sample)
		w.WriteString(job.AnalysisType)
		w.WriteString(job.Reference.Build)
		w.WriteString(job.Aligner)
		w.WriteString(job.VariantCaller)
		w.WriteUint32(uint32(len(job.InputFiles)))
		w.WriteString(job.UploadDir)
		if err = w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}
