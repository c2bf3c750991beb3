// Package resource maps the symbolic names appearing in a run document --
// genome builds, capture-region sets, tool identifiers -- to concrete
// resources.  A Registry is populated either programmatically or from a
// genome directory laid out as
//
//	<dir>/<build>/seq/<build>.fa        reference sequence
//	<dir>/<build>/seq/<build>.fa.fai    FASTA index (optional)
//	<dir>/<build>/regions/<alias>.bed   named region sets
//
// and is then consulted during validation and plan resolution.
package resource

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/grailbio/base/file"
)

// Reference locates the reference genome resources for one build.
type Reference struct {
	// Build is the build alias, e.g. "GRCh37".
	Build string
	// Fasta is the reference sequence locator.
	Fasta string
	// Index is the .fai locator, empty if the build has no index.
	Index string
}

// AliasError reports a named resource that the registry does not know.
type AliasError struct {
	Kind  string // "genome build" or "region set"
	Alias string
}

func (e *AliasError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Alias)
}

// Registry holds the known genome builds, named region sets, and tool
// capability sets.  The zero value is not usable; call NewRegistry.  A
// Registry is safe for concurrent readers once population is done.
type Registry struct {
	builds   map[string]Reference
	regions  map[string]string
	aligners map[string]bool
	callers  map[string]bool
}

// DefaultAligners is the aligner capability set a new registry starts with.
var DefaultAligners = []string{
	"bwa", "bowtie2", "minimap2", "novoalign", "snap", "star", "hisat2",
}

// DefaultCallers is the variant-caller capability set a new registry starts
// with.
var DefaultCallers = []string{
	"gatk-haplotype", "freebayes", "vardict", "mutect2", "strelka2",
	"deepvariant", "samtools",
}

// NewRegistry returns a registry seeded with the default tool capability sets
// and no genome builds or region sets.
func NewRegistry() *Registry {
	r := &Registry{
		builds:   make(map[string]Reference),
		regions:  make(map[string]string),
		aligners: make(map[string]bool),
		callers:  make(map[string]bool),
	}
	for _, a := range DefaultAligners {
		r.aligners[a] = true
	}
	for _, c := range DefaultCallers {
		r.callers[c] = true
	}
	return r
}

// RegisterBuild adds or replaces a genome build.
func (r *Registry) RegisterBuild(ref Reference) {
	r.builds[ref.Build] = ref
}

// RegisterRegions adds or replaces a named region set pointing at a BED
// locator.
func (r *Registry) RegisterRegions(alias, bedPath string) {
	r.regions[alias] = bedPath
}

// RegisterAligner extends the aligner capability set.
func (r *Registry) RegisterAligner(name string) { r.aligners[name] = true }

// RegisterCaller extends the variant-caller capability set.
func (r *Registry) RegisterCaller(name string) { r.callers[name] = true }

// Build resolves a genome-build alias.
func (r *Registry) Build(alias string) (Reference, error) {
	ref, ok := r.builds[alias]
	if !ok {
		return Reference{}, &AliasError{Kind: "genome build", Alias: alias}
	}
	return ref, nil
}

// Regions resolves a region-set alias to its BED locator.
func (r *Registry) Regions(alias string) (string, error) {
	path, ok := r.regions[alias]
	if !ok {
		return "", &AliasError{Kind: "region set", Alias: alias}
	}
	return path, nil
}

// HasRegions reports whether alias names a registered region set.
func (r *Registry) HasRegions(alias string) bool {
	_, ok := r.regions[alias]
	return ok
}

// KnownAligner reports whether name is in the aligner capability set.
func (r *Registry) KnownAligner(name string) bool { return r.aligners[name] }

// KnownCaller reports whether name is in the variant-caller capability set.
func (r *Registry) KnownCaller(name string) bool { return r.callers[name] }

// SuggestAligner returns the known aligner closest to name, or "" if none is
// within edit distance 2.
func (r *Registry) SuggestAligner(name string) string {
	return suggest(name, r.aligners)
}

// SuggestCaller returns the known variant caller closest to name, or "" if
// none is within edit distance 2.
func (r *Registry) SuggestCaller(name string) string {
	return suggest(name, r.callers)
}

func suggest(name string, known map[string]bool) string {
	const maxDistance = 2
	names := make([]string, 0, len(known))
	for n := range known {
		names = append(names, n)
	}
	sort.Strings(names) // deterministic tie-break
	best, bestDist := "", maxDistance+1
	for _, n := range names {
		if d := matchr.Levenshtein(name, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

// LoadDir populates genome builds and region sets from a genome directory
// (see the package comment for the layout).  dir may be a local path or a
// URL-style locator.  Entries that do not match the layout are ignored.
func (r *Registry) LoadDir(ctx context.Context, dir string) error {
	dir = strings.TrimSuffix(dir, "/")
	fastas := make(map[string]string)
	indexes := make(map[string]string)
	lister := file.List(ctx, dir, true /*recursive*/)
	for lister.Scan() {
		path := lister.Path()
		rel := strings.TrimPrefix(path, dir+"/")
		parts := strings.Split(rel, "/")
		if len(parts) != 3 {
			continue
		}
		build, kind, base := parts[0], parts[1], parts[2]
		switch kind {
		case "seq":
			if base == build+".fa" || base == build+".fasta" {
				fastas[build] = path
			} else if base == build+".fa.fai" || base == build+".fasta.fai" {
				indexes[build] = path
			}
		case "regions":
			ext := filepath.Ext(base)
			if ext == ".bed" || strings.HasSuffix(base, ".bed.gz") {
				alias := strings.TrimSuffix(base, ".gz")
				alias = strings.TrimSuffix(alias, ".bed")
				r.RegisterRegions(alias, path)
			}
		}
	}
	if err := lister.Err(); err != nil {
		return err
	}
	for build, fasta := range fastas {
		r.RegisterBuild(Reference{Build: build, Fasta: fasta, Index: indexes[build]})
	}
	return nil
}

// Builds returns the registered build aliases in sorted order.
func (r *Registry) Builds() []string {
	names := make([]string, 0, len(r.builds))
	for n := range r.builds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
