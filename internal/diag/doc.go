// Package diag defines the diagnostic model shared by the front end, the
// validator and the renderers.
//
// # Data model
//
// Diagnostic is the central record. Besides the usual Severity, Code,
// Message, Primary span and Notes it carries the structured facts of a tag
// finding: the Kind of finding, the Tag, the element kind (and its declaring
// type kind) and, for unsupported uses, the rules.Reason. Messages are
// derived from those fields by a Catalog, so producers may leave Message
// empty and let the sink fill it.
//
// # Emitting diagnostics
//
// Producers emit through a Reporter. BagReporter collects into a Bag and
// renders messages with its Catalog; DedupReporter and MultiReporter wrap
// other reporters. ReportBuilder is a small helper for free-form
// diagnostics (syntax and I/O errors) that need notes attached.
//
// # Consumers
//
//   - internal/diagfmt renders diagnostics as pretty, short, JSON, YAML or SARIF.
//   - internal/driver collects per-file bags, applies the SeverityPolicy and
//     caches diagnostics between incremental runs.
//
// Keep the model deterministic and serialisable: the incremental cache
// stores Diagnostic values with msgpack.
package diag
