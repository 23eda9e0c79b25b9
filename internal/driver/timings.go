package driver

import (
	"encoding/json"
	"fmt"

	"tagcheck/internal/diag"
	"tagcheck/internal/observ"
	"tagcheck/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Files   int                  `json:"files"`
	Cached  int                  `json:"cached"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// timingDiagnostic renders a run's phases as an OBS6001 info diagnostic.
func timingDiagnostic(payload timingPayload) (diag.Diagnostic, bool) {
	if payload.Kind == "" {
		payload.Kind = "check"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms, %d files, %d cached", payload.Kind, payload.TotalMS, payload.Files, payload.Cached)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return diag.Diagnostic{}, false
	}

	return diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Primary:  source.Span{},
		Notes: []diag.Note{
			{Span: source.Span{}, Msg: string(data)},
		},
	}, true
}

// appendTiming adds d past the bag limit; timings are never dropped.
func appendTiming(bag *diag.Bag, d diag.Diagnostic) {
	if bag.Cap() <= 0 || bag.Len() < bag.Cap() {
		bag.Add(d)
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(d)
	bag.Merge(overflow)
}
