// Package rules decides whether a restriction tag can have any effect on an
// element. Resolver folds an element's declared visibility and modifiers with
// its enclosing chain into an EffectiveContext; Lookup maps a tag and that
// context to a verdict through a flat, constant rule table.
package rules
