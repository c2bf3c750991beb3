package resource_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/pipeline/resource"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/klauspost/compress/gzip"
)

func TestValidateBED(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	tests := []struct {
		name string
		data string
		want string // "" means valid
	}{
		{"ok.bed", "chr1\t100\t200\nchr2\t0\t50\tpanel1\n", ""},
		{"header.bed", "track name=panel\n# comment\nchr1\t100\t200\n", ""},
		{"short.bed", "chr1\t100\n", "at least 3 BED columns"},
		{"badstart.bed", "chr1\tx\t200\n", "malformed start"},
		{"badend.bed", "chr1\t100\ty\n", "malformed end"},
		{"inverted.bed", "chr1\t200\t100\n", "invalid interval"},
		{"empty.bed", "# nothing\n", "no intervals"},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		assert.NoError(t, ioutil.WriteFile(path, []byte(tt.data), 0600))
		err := resource.ValidateBED(ctx, path)
		if tt.want == "" {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: got %v, want error containing %q", tt.name, err, tt.want)
		}
	}
}

func TestValidateBEDGzip(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(dir, "ok.bed.gz")
	out, err := os.Create(path)
	assert.NoError(t, err)
	gz := gzip.NewWriter(out)
	_, err = gz.Write([]byte("chr1\t100\t200\n"))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, out.Close())
	assert.NoError(t, resource.ValidateBED(ctx, path))

	plain := filepath.Join(dir, "fake.bed.gz")
	assert.NoError(t, ioutil.WriteFile(plain, []byte("chr1\t100\t200\n"), 0600))
	err = resource.ValidateBED(ctx, plain)
	if err == nil || !strings.Contains(err.Error(), "not a gzip file") {
		t.Errorf("got %v, want gzip error", err)
	}
}
