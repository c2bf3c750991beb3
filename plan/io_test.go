package plan_test

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/pipeline/plan"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestPlanRoundTrip(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	p, err := plan.Resolve(testConfig(), "/base", testRegistry())
	assert.NoError(t, err)

	path := filepath.Join(dir, "run.plan")
	assert.NoError(t, plan.Write(ctx, path, p))
	got, err := plan.Read(ctx, path)
	assert.NoError(t, err)
	expect.EQ(t, got, p)
}

func TestReadRejectsNonPlan(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "bogus.plan")
	assert.NoError(t, ioutil.WriteFile(path, []byte("not a recordio file"), 0600))
	if _, err := plan.Read(ctx, path); err == nil {
		t.Error("expected error reading non-plan file")
	}
}

func TestWriteSummaryTSV(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	p, err := plan.Resolve(testConfig(), "/base", testRegistry())
	assert.NoError(t, err)
	path := filepath.Join(dir, "summary.tsv")
	assert.NoError(t, plan.WriteSummaryTSV(ctx, path, p))

	data, err := ioutil.ReadFile(path)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	expect.EQ(t, len(lines), 3)
	expect.EQ(t, lines[0], "#sample\tanalysis\tbuild\taligner\tcaller\tn_inputs\tupload_dir")
	expect.EQ(t, lines[1], "NA12878-1\tvariant2\tGRCh37\tbwa\tgatk-haplotype\t2\t/base/final")
}
