// Package driver runs the Java front end and the validator over files and
// directories and merges the findings into one sorted bag.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"tagcheck/internal/diag"
	"tagcheck/internal/facts"
	"tagcheck/internal/javasrc"
	"tagcheck/internal/metrics"
	"tagcheck/internal/observ"
	"tagcheck/internal/project"
	"tagcheck/internal/rules"
	"tagcheck/internal/source"
	"tagcheck/internal/trace"
	"tagcheck/internal/validate"
)

// Options controls one check run.
type Options struct {
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int // <= 0 means unlimited

	Rules  rules.Options
	Policy diag.SeverityPolicy // nil means diag.DefaultPolicy
	Filter project.FileFilter

	WarningsAsErrors bool
	NoWarnings       bool
	Timings          bool

	// Cache enables incremental mode. Fingerprint must change whenever an
	// option that affects per-file diagnostics changes.
	Cache       *DiskCache
	Fingerprint project.Digest

	BaseDir  string
	Catalog  *diag.Catalog
	Progress ProgressSink
	Metrics  *metrics.Recorder
}

// FileResult is the outcome for one file before the severity policy.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Elements    int
	TagUses     map[string]int
	Cached      bool
	Elapsed     time.Duration
	Diagnostics []diag.Diagnostic
	Err         error
}

// Result holds everything a renderer needs.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Bag     *diag.Bag
	Timing  observ.Report
}

func (r *Result) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// CacheHits counts files replayed from the disk cache.
func (r *Result) CacheHits() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Cached {
			n++
		}
	}
	return n
}

// Check validates the .java file or directory at target.
func Check(ctx context.Context, target string, opts Options) (*Result, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check", trace.ParentID(ctx)).WithExtra("target", target)
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)
	started := time.Now()
	timer := observ.NewTimer()

	done := timer.Track("discover")
	paths, err := project.ListFiles(target, opts.Filter)
	if err != nil {
		done("failed")
		return nil, err
	}
	done(fmt.Sprintf("%d files", len(paths)))

	fs := source.NewFileSetWithBase(opts.BaseDir)
	res := &Result{FileSet: fs, Files: make([]FileResult, len(paths))}

	// Sequential loading keeps FileIDs, and so the sort order, stable.
	done = timer.Track("load")
	ids := make([]source.FileID, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("check cancelled: %w", err)
		}
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, loadErr := fs.Load(path)
		if loadErr != nil {
			res.Files[i] = loadFailure(fs, path, loadErr)
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
			continue
		}
		ids[i] = id
	}
	done("")

	done = timer.Track("check")
	v := validate.New(validate.Options{Rules: opts.Rules, Catalog: opts.Catalog})
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	err = validate.FanOut(ctx, len(paths), jobs, func(ctx context.Context, i int) {
		if res.Files[i].Err != nil {
			return
		}
		// each call owns res.Files[i]
		res.Files[i] = checkFile(ctx, fs, ids[i], v, &opts)
	})
	if err != nil {
		done("cancelled")
		return nil, fmt.Errorf("check cancelled: %w", err)
	}
	done(fmt.Sprintf("jobs=%d", jobs))

	done = timer.Track("merge")
	res.Bag = merge(res.Files, &opts)
	done(fmt.Sprintf("%d diagnostics", res.Bag.Len()))

	res.Timing = timer.Report()
	finishRun(res, target, started, &opts)
	return res, nil
}

// CheckFile (re)loads one file into fs and validates it. Loading the same
// path again into one FileSet yields a fresh FileID.
func CheckFile(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	timer := observ.NewTimer()
	res := &Result{FileSet: fs, Files: make([]FileResult, 1)}

	done := timer.Track("check")
	id, err := fs.Load(path)
	if err != nil {
		res.Files[0] = loadFailure(fs, path, err)
	} else {
		v := validate.New(validate.Options{Rules: opts.Rules, Catalog: opts.Catalog})
		res.Files[0] = checkFile(ctx, fs, id, v, &opts)
	}
	done("")
	if errors.Is(res.Files[0].Err, context.Canceled) || errors.Is(res.Files[0].Err, context.DeadlineExceeded) {
		return nil, res.Files[0].Err
	}

	res.Bag = merge(res.Files, &opts)
	res.Timing = timer.Report()
	finishRun(res, path, started, &opts)
	return res, nil
}

// CheckSource validates in-memory content registered under path, as an
// editor buffer that may differ from disk. The cache is never consulted.
func CheckSource(ctx context.Context, fs *source.FileSet, path string, content []byte, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.Cache = nil
	started := time.Now()
	timer := observ.NewTimer()
	res := &Result{FileSet: fs, Files: make([]FileResult, 1)}

	done := timer.Track("check")
	id := fs.AddOverlay(path, content)
	v := validate.New(validate.Options{Rules: opts.Rules, Catalog: opts.Catalog})
	res.Files[0] = checkFile(ctx, fs, id, v, &opts)
	done("")

	res.Bag = merge(res.Files, &opts)
	res.Timing = timer.Report()
	finishRun(res, path, started, &opts)
	return res, nil
}

func loadFailure(fs *source.FileSet, path string, err error) FileResult {
	// An empty stand-in file gives the diagnostic a printable location.
	id := fs.Add(path, nil, 0)
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Kind:     diag.LoadError,
		Primary:  source.Span{File: id},
		Message:  fmt.Sprintf("failed to read %s: %v", path, err),
	}
	return FileResult{Path: path, FileID: id, Diagnostics: []diag.Diagnostic{d}, Err: err}
}

func checkFile(ctx context.Context, fs *source.FileSet, id source.FileID, v *validate.Validator, opts *Options) (fr FileResult) {
	file := fs.Get(id)
	fr = FileResult{Path: file.Path, FileID: id}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "check_file", trace.ParentID(ctx)).WithExtra("file", file.Path)
	ctx = trace.WithSpan(ctx, span)
	start := time.Now()
	defer func() {
		fr.Elapsed = time.Since(start)
		span.WithExtra("cached", fmt.Sprint(fr.Cached)).End("")
		opts.Metrics.FileChecked(fr.Elapsed, fr.Cached)
	}()

	var key project.Digest
	if opts.Cache != nil {
		emit(opts.Progress, Event{File: file.Path, Stage: StageCache, Status: StatusWorking})
		key = cacheKey(file.Hash, opts.Fingerprint)
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		if err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache_error", err.Error())
		}
		if ok && payload.ContentHash == file.Hash {
			fr.Cached = true
			fr.Elements = payload.Elements
			fr.TagUses = payload.TagUses
			fr.Diagnostics = rebind(payload.Diagnostics, id)
			emit(opts.Progress, Event{File: file.Path, Stage: StageCache, Status: StatusDone, Elapsed: time.Since(start)})
			return fr
		}
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	unit, syntax, err := javasrc.Extract(ctx, fs, id)
	if err != nil {
		fr.Err = err
		emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusError, Err: err})
		return fr
	}
	fr.Elements = len(unit.Facts)
	fr.TagUses = countTags(&unit)

	emit(opts.Progress, Event{File: file.Path, Stage: StageValidate, Status: StatusWorking})
	ur := v.ValidateUnit(&unit)
	fr.Diagnostics = append(syntax, ur.Diagnostics...)
	if ur.Err != nil {
		fr.Err = ur.Err
		emit(opts.Progress, Event{File: file.Path, Stage: StageValidate, Status: StatusError, Err: ur.Err})
		return fr
	}

	if opts.Cache != nil {
		payload := &DiskPayload{
			Schema:      diskCacheSchemaVersion,
			Path:        file.Path,
			ContentHash: file.Hash,
			Fingerprint: opts.Fingerprint,
			Elements:    fr.Elements,
			TagUses:     fr.TagUses,
			Diagnostics: fr.Diagnostics,
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache_error", err.Error())
		}
	}
	emit(opts.Progress, Event{File: file.Path, Stage: StageValidate, Status: StatusDone, Elapsed: time.Since(start)})
	return fr
}

func countTags(u *facts.Unit) map[string]int {
	counts := make(map[string]int)
	for _, f := range u.Facts {
		for _, t := range f.Tags {
			counts[t.Tag.String()]++
		}
	}
	return counts
}

// merge collects per-file diagnostics in file order, applies the policy
// and sorts. The limit applies after sorting so truncation is stable.
func merge(files []FileResult, opts *Options) *diag.Bag {
	all := diag.NewBag(0)
	for i := range files {
		for _, d := range files[i].Diagnostics {
			all.Add(d)
		}
	}
	policy := opts.Policy
	if policy == nil {
		policy = diag.DefaultPolicy()
	}
	policy.Apply(all)
	if opts.WarningsAsErrors {
		diag.PromoteWarnings(all)
	}
	if opts.NoWarnings {
		diag.DropBelow(all, diag.SevError)
	}
	all.Sort()

	out := diag.NewBag(opts.MaxDiagnostics)
	for _, d := range all.Items() {
		out.Add(d)
	}
	return out
}

func finishRun(res *Result, path string, started time.Time, opts *Options) {
	if opts.Timings {
		payload := timingPayload{
			Path:    path,
			Files:   len(res.Files),
			Cached:  res.CacheHits(),
			TotalMS: res.Timing.TotalMS,
			Phases:  res.Timing.Phases,
		}
		if d, ok := timingDiagnostic(payload); ok {
			appendTiming(res.Bag, d)
		}
	}
	if opts.Metrics != nil {
		for i := range res.Files {
			for tag, n := range res.Files[i].TagUses {
				opts.Metrics.TagUses(tag, n)
			}
		}
		opts.Metrics.RunFinished(time.Since(started), res.Bag.Items())
	}
}
