package config

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// probeInput peeks at one input read file and attaches a warning to the
// report if it looks wrong: an extension outside the recognized read-file set
// (fastq/fq/bam, optionally gzipped), a .gz file that is not gzip, or a FASTQ
// file whose leading record is malformed.  Read errors past the Stat that
// already succeeded are reported as warnings too, not violations.
func probeInput(ctx context.Context, path, field string, report *Report) {
	base := path
	gzipped := strings.HasSuffix(base, ".gz")
	if gzipped {
		base = strings.TrimSuffix(base, ".gz")
	}
	fastq := strings.HasSuffix(base, ".fastq") || strings.HasSuffix(base, ".fq")
	bam := strings.HasSuffix(base, ".bam")
	if !fastq && !bam {
		report.warnf(field,
			"%s: unrecognized read-file extension (expected .fastq, .fq, or .bam, optionally gzipped)",
			path)
	}
	if !gzipped && !fastq {
		return
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		report.warnf(field, "%s: %v", path, err)
		return
	}
	defer in.Close(ctx)
	var r io.Reader = in.Reader(ctx)
	if gzipped {
		gz, zerr := gzip.NewReader(r)
		if zerr != nil {
			report.warnf(field, "%s: not a gzip file: %v", path, zerr)
			return
		}
		defer gz.Close()
		r = gz
	}
	if fastq {
		if perr := probeFastq(r); perr != nil {
			report.warnf(field, "%s: %v", path, perr)
		}
	}
}

// checkGzip verifies that the file at path carries a valid gzip header.
func checkGzip(ctx context.Context, path string) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	gz, err := gzip.NewReader(in.Reader(ctx))
	if err != nil {
		return errors.Wrap(err, "not a gzip file")
	}
	return gz.Close()
}

// probeFastq checks that r starts with a well-formed FASTQ record: an ID line
// beginning with '@', a sequence line, a '+' line, and a quality line of the
// same length as the sequence.  Deeper validation is left to the aligner.
func probeFastq(r io.Reader) error {
	sc := bufio.NewScanner(r)
	var lines []string
	for len(lines) < 4 && sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if len(lines) < 4 {
		return errors.New("truncated FASTQ record")
	}
	if len(lines[0]) == 0 || lines[0][0] != '@' {
		return errors.Errorf("FASTQ ID line does not start with '@': %q", lines[0])
	}
	if len(lines[2]) == 0 || lines[2][0] != '+' {
		return errors.Errorf("FASTQ separator line does not start with '+': %q", lines[2])
	}
	if len(lines[1]) != len(lines[3]) {
		return errors.Errorf("FASTQ seq/qual length mismatch: %d vs %d", len(lines[1]), len(lines[3]))
	}
	return nil
}
