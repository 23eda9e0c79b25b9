package lsp

import (
	"context"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"tagcheck/internal/diag"
	"tagcheck/internal/driver"
	"tagcheck/internal/project"
	"tagcheck/internal/rules"
	"tagcheck/internal/source"
)

// documentOptions loads the tagcheck.toml governing path. ok is false when
// the file is excluded by the configuration.
func documentOptions(path string) (opts driver.Options, ok bool, err error) {
	cfg, err := project.LoadFor(filepath.Dir(path))
	if err != nil {
		return driver.Options{}, false, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return driver.Options{}, false, err
	}
	filter := cfg.Filter(filepath.Dir(path))
	base := cfg.Root()
	if base == "" {
		base = filepath.Dir(path)
	}
	opts = driver.Options{
		MaxDiagnostics: cfg.Check.MaxDiagnostics,
		Rules:          rules.Options{DefaultPackageExemption: cfg.Check.DefaultPackageExemption},
		Policy:         policy,
		Filter:         filter,
		BaseDir:        base,
		Catalog:        diag.NewCatalog(),
	}
	return opts, filter.Match(path), nil
}

// CheckDocument is the default AnalyzeFunc: it applies the configuration
// found above path to the buffer content.
func CheckDocument(ctx context.Context, path string, content []byte) (*driver.Result, error) {
	opts, ok, err := documentOptions(path)
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSetWithBase(opts.BaseDir)
	if !ok {
		return &driver.Result{FileSet: fs, Bag: diag.NewBag(0)}, nil
	}
	return driver.CheckSource(ctx, fs, path, content, opts)
}

func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := atomic.AddUint64(&s.analysisSeq, 1)
	atomic.StoreUint64(&s.latestSeq, seq)
	if s.diagCancel != nil {
		s.diagCancel()
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
}

type pendingDoc struct {
	uri  string
	path string
	document
}

// runDiagnostics checks every open document and publishes the results of
// those whose version did not move meanwhile.
func (s *Server) runDiagnostics(seq uint64) {
	if !s.isLatestSeq(seq) {
		return
	}
	s.mu.Lock()
	if s.diagCancel != nil {
		s.diagCancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.diagCancel = cancel
	pending := make([]pendingDoc, 0, len(s.docs))
	for uri, doc := range s.docs {
		if path := uriToPath(uri); path != "" {
			pending = append(pending, pendingDoc{uri: uri, path: path, document: doc})
		}
	}
	s.mu.Unlock()
	defer cancel()

	sort.Slice(pending, func(i, j int) bool { return pending[i].uri < pending[j].uri })
	for _, p := range pending {
		if ctx.Err() != nil || !s.isLatestSeq(seq) {
			return
		}
		started := time.Now()
		res, err := s.analyze(ctx, p.path, []byte(p.text))
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("diagnostics failed", "uri", p.uri, "err", err)
			}
			continue
		}
		list := toLSPDiagnostics(res)
		s.logger.Debug("analysis done", "uri", p.uri, "version", p.version, "diagnostics", len(list), "elapsed", time.Since(started))
		s.publish(p, list)
	}
}

func (s *Server) publish(p pendingDoc, list []lspDiagnostic) {
	s.mu.Lock()
	current, open := s.docs[p.uri]
	if !open || current.version != p.version || current.text != p.text {
		s.mu.Unlock()
		return
	}
	_, hadDiagnostics := s.published[p.uri]
	if len(list) > 0 {
		s.published[p.uri] = struct{}{}
	} else {
		delete(s.published, p.uri)
	}
	s.mu.Unlock()

	if len(list) == 0 && !hadDiagnostics {
		return
	}
	version := p.version
	if err := s.sendPublish(p.uri, &version, list); err != nil {
		s.logger.Warn("failed to publish diagnostics", "uri", p.uri, "err", err)
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logger.Warn("failed to clear diagnostics", "uri", uri, "err", err)
		}
	}
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

func toLSPDiagnostics(res *driver.Result) []lspDiagnostic {
	if res == nil || res.Bag == nil {
		return nil
	}
	items := res.Bag.Items()
	out := make([]lspDiagnostic, 0, len(items))
	for i := range items {
		d := &items[i]
		if !d.Located() {
			continue
		}
		file := res.FileSet.Get(d.Primary.File)
		if file == nil {
			continue
		}
		ld := lspDiagnostic{
			Range:    rangeForSpan(file, d.Primary),
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "tagcheck",
			Message:  d.Message,
		}
		if ld.Message == "" {
			ld.Message = d.Code.Title()
		}
		for _, n := range d.Notes {
			nf := res.FileSet.Get(n.Span.File)
			if nf == nil {
				continue
			}
			ld.RelatedInformation = append(ld.RelatedInformation, relatedInformation{
				Location: location{URI: pathToURI(nf.Path), Range: rangeForSpan(nf, n.Span)},
				Message:  n.Msg,
			})
		}
		out = append(out, ld)
	}
	return out
}
