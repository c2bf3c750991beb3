package plan

import (
	"bytes"
	"context"
	"encoding/gob"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/pkg/errors"
)

// A plan file is a zstd-compressed recordio: one gob-encoded JobDescriptor
// per record, the run ID and base dir gob-encoded in the trailer.  It lets a
// validated plan be handed to stage runners in a separate process.

const (
	planVersionHeader = "bio-pipeline-version"
	planVersion       = "PLAN_V1"
)

// planTrailer is stored in the trailer section of the recordio file.
type planTrailer struct {
	RunID   string
	BaseDir string
	NumJobs int
}

// Write stores the plan at path.
func Write(ctx context.Context, path string, p *ExecutionPlan) (err error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(planVersionHeader, planVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	for i := range p.Jobs {
		buf := bytes.Buffer{}
		if err := gob.NewEncoder(&buf).Encode(p.Jobs[i]); err != nil {
			return err
		}
		w.Append(buf.Bytes())
	}
	buf := bytes.Buffer{}
	t := planTrailer{RunID: p.RunID, BaseDir: p.BaseDir, NumJobs: len(p.Jobs)}
	if err := gob.NewEncoder(&buf).Encode(t); err != nil {
		return err
	}
	w.SetTrailer(buf.Bytes())
	return w.Finish()
}

// Read loads a plan written by Write.
func Read(ctx context.Context, path string) (p *ExecutionPlan, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	recordiozstd.Init()
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == planVersionHeader {
			if kv.Value.(string) != planVersion {
				return nil, errors.Errorf("%s: plan version mismatch, got %v, expect %v",
					path, kv.Value, planVersion)
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		return nil, errors.Errorf("%s: %s header not found", path, planVersionHeader)
	}
	t := planTrailer{}
	if err := gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&t); err != nil {
		return nil, errors.Wrapf(err, "%s: corrupt plan trailer", path)
	}
	p = &ExecutionPlan{RunID: t.RunID, BaseDir: t.BaseDir, Jobs: make([]JobDescriptor, 0, t.NumJobs)}
	for r.Scan() {
		job := JobDescriptor{}
		if err := gob.NewDecoder(bytes.NewReader(r.Get().([]byte))).Decode(&job); err != nil {
			return nil, errors.Wrapf(err, "%s: corrupt job record %d", path, len(p.Jobs))
		}
		p.Jobs = append(p.Jobs, job)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if len(p.Jobs) != t.NumJobs {
		return nil, errors.Errorf("%s: expected %d jobs, read %d", path, t.NumJobs, len(p.Jobs))
	}
	return p, nil
}
