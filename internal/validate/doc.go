// Package validate runs the restriction-tag checks over element facts.
//
// For every tagged fact the Validator first reports repeated tags, then
// resolves the fact's effective context and consults the rule table once per
// distinct tag, at the tag's first occurrence. Units are independent, so
// ValidateUnits fans them out over a bounded worker pool.
package validate
