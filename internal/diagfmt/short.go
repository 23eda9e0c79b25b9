package diagfmt

import (
	"fmt"
	"io"

	"tagcheck/internal/diag"
	"tagcheck/internal/source"
)

// Short writes one line per diagnostic:
//
//	<severity> <CODE> <path>:<line>:<col> <message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode, withNotes bool) error {
	items := bag.Items()
	ptrs := make([]*diag.Diagnostic, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	out := diag.FormatShortDiagnostics(ptrs, fs, withNotes, mode.String())
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
