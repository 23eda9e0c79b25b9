// Package testkit holds consistency checks shared by front-end and driver tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tagcheck/internal/facts"
	"tagcheck/internal/rules"
	"tagcheck/internal/source"
)

// CheckUnitInvariants verifies the contract a front end owes the validator:
//  1. every name and tag span lies inside sf and points at sf.ID
//  2. tag occurrences keep source order
//  3. an enclosing fact is declared earlier in the unit, so chains are acyclic
//  4. members carry their container's kind as DeclaringTypeKind
//  5. effective visibility never exceeds the container's
func CheckUnitInvariants(u *facts.Unit, sf *source.File) error {
	if u == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	inFile := func(sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("span %v points to file %d, want %d", sp, sp.File, sf.ID)
		}
		if sp.End <= sp.Start || sp.End > size {
			return fmt.Errorf("span %v outside content of %d bytes", sp, size)
		}
		return nil
	}

	index := make(map[*facts.ElementFact]int, len(u.Facts))
	resolver := rules.NewResolver(rules.DefaultOptions())
	for i, f := range u.Facts {
		if !f.Kind.Valid() {
			return fmt.Errorf("fact %d (%s): invalid kind", i, f.Name)
		}
		if err := inFile(f.Pos); err != nil {
			return fmt.Errorf("fact %s: %w", f.Name, err)
		}
		var last uint32
		for _, use := range f.Tags {
			if err := inFile(use.Pos); err != nil {
				return fmt.Errorf("fact %s tag %s: %w", f.Name, use.Tag, err)
			}
			if use.Pos.Start < last {
				return fmt.Errorf("fact %s: tag %s out of source order", f.Name, use.Tag)
			}
			last = use.Pos.Start
		}

		if f.Enclosing != nil {
			if _, ok := index[f.Enclosing]; !ok {
				return fmt.Errorf("fact %s: enclosing %s not declared before it", f.Name, f.Enclosing.Name)
			}
		}
		switch {
		case f.Kind.IsType() && f.DeclaringTypeKind != f.Kind:
			return fmt.Errorf("type %s: declaring kind %s, want %s", f.Name, f.DeclaringTypeKind, f.Kind)
		case f.Kind.IsMember() && (f.Enclosing == nil || f.DeclaringTypeKind != f.Enclosing.Kind):
			return fmt.Errorf("member %s: declaring kind %s does not match its container", f.Name, f.DeclaringTypeKind)
		}

		ctx := resolver.Resolve(f)
		if f.Enclosing != nil {
			if outer := resolver.Resolve(f.Enclosing); ctx.Effective > outer.Effective {
				return fmt.Errorf("fact %s: effective %s exceeds container's %s", f.Name, ctx.Effective, outer.Effective)
			}
		}
		index[f] = i
	}
	return nil
}
