// Package fuzztests holds fuzz harnesses for the Java extraction and
// validation pipeline (source -> tree-sitter -> facts -> verdicts). They
// guard against panics, hangs and malformed facts on arbitrary input.
package fuzztests
