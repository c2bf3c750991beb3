package resource

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// ValidateBED checks that path is a readable BED file: every data line has at
// least three tab- or space-separated columns, the start and end columns are
// integers, and start <= end.  Header lines ("track", "browser", "#") and
// blank lines are skipped.  path may end in .gz, in which case the stream is
// decompressed first.
func ValidateBED(ctx context.Context, path string) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, zerr := gzip.NewReader(r)
		if zerr != nil {
			return errors.Wrapf(zerr, "%s: not a gzip file", path)
		}
		defer gz.Close()
		r = gz
	}
	scanner := bufio.NewScanner(r)
	nData := 0
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) < 3 {
			return errors.Errorf("%s:%d: expected at least 3 BED columns, got %d", path, lineno, len(cols))
		}
		start, perr := strconv.ParseInt(cols[1], 10, 64)
		if perr != nil {
			return errors.Errorf("%s:%d: malformed start position %q", path, lineno, cols[1])
		}
		end, perr := strconv.ParseInt(cols[2], 10, 64)
		if perr != nil {
			return errors.Errorf("%s:%d: malformed end position %q", path, lineno, cols[2])
		}
		if start < 0 || end < start {
			return errors.Errorf("%s:%d: invalid interval [%d, %d)", path, lineno, start, end)
		}
		nData++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, path)
	}
	if nData == 0 {
		return errors.Errorf("%s: no intervals", path)
	}
	return nil
}
