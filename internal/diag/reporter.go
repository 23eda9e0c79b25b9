package diag

// Reporter is the minimal contract for receiving diagnostics.
// Implementations: BagReporter, DedupReporter, MultiReporter, NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes into a Bag, rendering messages through Catalog when set.
type BagReporter struct {
	Bag     *Bag
	Catalog *Catalog
}

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	if r.Catalog != nil {
		d.Message = r.Catalog.Message(&d)
	}
	r.Bag.Add(d)
}

// MultiReporter fans a diagnostic out to every reporter.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}

type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) {
	f(d)
}
