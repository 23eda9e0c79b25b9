package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("extract")
	done("3 files")
	idx := tm.Begin("validate")
	tm.End(idx, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "extract" || r.Phases[0].Note != "3 files" {
		t.Fatalf("report = %+v", r)
	}
	if s := tm.Summary(); !strings.Contains(s, "extract") || !strings.Contains(s, "total") {
		t.Fatalf("summary = %q", s)
	}
	if (&Timer{}).Report().Phases != nil {
		t.Fatalf("empty timer should report no phases")
	}
}
