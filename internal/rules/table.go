package rules

import (
	"fmt"

	"tagcheck/internal/facts"
)

type rule func(ctx *EffectiveContext) Applicability

var table = [...]rule{
	facts.NoExtend:      noExtend,
	facts.NoImplement:   noImplement,
	facts.NoInstantiate: noInstantiate,
	facts.NoOverride:    noOverride,
	facts.NoReference:   noReference,
}

// Lookup returns the verdict for tag on an element with context ctx. It panics
// with ErrUnknownKind for a tag or kind outside the closed sets.
func Lookup(tag facts.Tag, ctx EffectiveContext) Applicability {
	if int(tag) >= len(table) || table[tag] == nil {
		panic(fmt.Errorf("%w: %s", ErrUnknownKind, tag))
	}
	if !ctx.Kind.Valid() {
		panic(fmt.Errorf("%w: %s", ErrUnknownKind, ctx.Kind))
	}
	return table[tag](&ctx)
}

// typeVisibility rejects a type that cannot be seen outside its package.
func typeVisibility(ctx *EffectiveContext) (Applicability, bool) {
	switch {
	case ctx.Own == facts.Private:
		return InvalidBecause(PrivateMember), true
	case ctx.Own == facts.Package:
		return InvalidBecause(PackageDefaultMember), true
	case ctx.EnclosingEffective <= facts.Package:
		return InvalidBecause(NotVisibleMember), true
	}
	return Valid, false
}

func noExtend(ctx *EffectiveContext) Applicability {
	if !ctx.Kind.IsType() {
		return InvalidBecause(WrongElementKind)
	}
	if a, bad := typeVisibility(ctx); bad {
		return a
	}
	switch ctx.Kind {
	case facts.Enum, facts.Annotation, facts.Record:
		return InvalidBecause(WrongElementKind)
	case facts.Class:
		if ctx.Final {
			return InvalidBecause(FinalClass)
		}
	}
	return Valid
}

func noImplement(ctx *EffectiveContext) Applicability {
	if ctx.Kind != facts.Interface {
		return InvalidBecause(WrongElementKind)
	}
	if a, bad := typeVisibility(ctx); bad {
		return a
	}
	return Valid
}

func noInstantiate(ctx *EffectiveContext) Applicability {
	if ctx.Kind != facts.Class {
		return InvalidBecause(WrongElementKind)
	}
	if a, bad := typeVisibility(ctx); bad {
		return a
	}
	if ctx.Abstract {
		return InvalidBecause(AbstractType)
	}
	return Valid
}

func noOverride(ctx *EffectiveContext) Applicability {
	if ctx.Kind != facts.Method {
		return InvalidBecause(WrongElementKind)
	}
	switch {
	case ctx.Own == facts.Private:
		return InvalidBecause(PrivateMember)
	case ctx.Static:
		return InvalidBecause(StaticMethod)
	case ctx.Final:
		return InvalidBecause(FinalMethod)
	case ctx.DeclaringTypeFinal:
		return InvalidBecause(FinalClass)
	case ctx.IsNonDefaultInterfaceMethod:
		return InvalidBecause(NonDefaultInterfaceMethod)
	case ctx.Effective == facts.Package:
		return InvalidBecause(PackageDefaultMember)
	case ctx.Effective == facts.Private:
		return InvalidBecause(NotVisibleMember)
	}
	return Valid
}

// noReference accepts private and package members: they are commonly tagged
// to keep the tag in place when visibility is later widened.
func noReference(ctx *EffectiveContext) Applicability {
	if ctx.Constant {
		return InvalidBecause(ConstantField)
	}
	if ctx.EnclosingEffective <= facts.Package {
		return InvalidBecause(NotVisibleMember)
	}
	if ctx.Kind.IsType() {
		switch ctx.Own {
		case facts.Private:
			return InvalidBecause(PrivateMember)
		case facts.Package:
			return InvalidBecause(PackageDefaultMember)
		}
	}
	return Valid
}
