// Package facts describes declared Java program elements as the validator
// sees them: kind, declared visibility, modifier flags, enclosing chain and
// the restriction tags found in the element's documentation comment.
//
// Facts are built fresh for each compilation unit by a front end and are
// immutable once handed to the validator.
package facts
