package rules

import (
	"fmt"

	"tagcheck/internal/facts"
)

// EffectiveContext holds the derived attributes the rule table reads.
type EffectiveContext struct {
	Kind              facts.ElementKind
	DeclaringTypeKind facts.ElementKind

	// Own is the declared visibility after the default-package exemption.
	Own facts.Visibility
	// Effective is min(Own, container's Effective).
	Effective facts.Visibility
	// EnclosingEffective is the container's Effective, Public for roots.
	EnclosingEffective facts.Visibility

	Final    bool
	Static   bool
	Abstract bool
	Default  bool
	Constant bool

	DeclaringTypeFinal          bool
	IsEffectivelyFinal          bool
	IsNonDefaultInterfaceMethod bool
	DefaultPackageExempt        bool
}

// Options configure a Resolver.
type Options struct {
	// DefaultPackageExemption treats top-level types of the unnamed package as public.
	DefaultPackageExemption bool
}

// DefaultOptions are the options used by Resolve.
func DefaultOptions() Options {
	return Options{DefaultPackageExemption: true}
}

// Resolver computes and memoizes contexts for the facts of one unit.
// It is not safe for concurrent use; create one per unit.
type Resolver struct {
	opts     Options
	memo     map[*facts.ElementFact]*EffectiveContext
	visiting map[*facts.ElementFact]struct{}
}

func NewResolver(opts Options) *Resolver {
	return &Resolver{
		opts:     opts,
		memo:     make(map[*facts.ElementFact]*EffectiveContext),
		visiting: make(map[*facts.ElementFact]struct{}),
	}
}

// Resolve computes the context of f with the default options.
func Resolve(f *facts.ElementFact) EffectiveContext {
	return NewResolver(DefaultOptions()).Resolve(f)
}

// Resolve returns the context of f. It panics with ErrCyclicEnclosing when
// the enclosing chain loops back on itself.
func (r *Resolver) Resolve(f *facts.ElementFact) EffectiveContext {
	if f == nil {
		panic("rules: Resolve on nil fact")
	}
	return *r.resolve(f)
}

func (r *Resolver) resolve(f *facts.ElementFact) *EffectiveContext {
	if ctx, ok := r.memo[f]; ok {
		return ctx
	}
	if _, ok := r.visiting[f]; ok {
		panic(fmt.Errorf("%w: %s %q", ErrCyclicEnclosing, f.Kind, f.Name))
	}
	r.visiting[f] = struct{}{}
	defer delete(r.visiting, f)

	enclosing := facts.Public
	if f.Enclosing != nil {
		enclosing = r.resolve(f.Enclosing).Effective
	}

	ctx := &EffectiveContext{
		Kind:               f.Kind,
		DeclaringTypeKind:  declaringKind(f),
		Own:                f.OwnVisibility,
		EnclosingEffective: enclosing,
		Final:              f.Has(facts.Final),
		Static:             f.Has(facts.Static),
		Abstract:           f.Has(facts.Abstract),
		Default:            f.Has(facts.DefaultMethod),
		Constant:           f.Has(facts.ConstantField),
	}
	if r.opts.DefaultPackageExemption && f.Enclosing == nil && f.Kind.IsType() && f.Package == "" {
		ctx.DefaultPackageExempt = true
		ctx.Own = facts.Public
	}
	ctx.Effective = facts.Min(ctx.Own, enclosing)

	if f.Kind.IsMember() && f.Enclosing != nil {
		ctx.DeclaringTypeFinal = f.Enclosing.Has(facts.Final)
	}
	ctx.IsEffectivelyFinal = ctx.Final
	if f.Kind == facts.Method {
		ctx.IsEffectivelyFinal = ctx.Final || ctx.DeclaringTypeFinal
	}
	ctx.IsNonDefaultInterfaceMethod = f.Kind == facts.Method &&
		ctx.DeclaringTypeKind == facts.Interface && !ctx.Default

	r.memo[f] = ctx
	return ctx
}

func declaringKind(f *facts.ElementFact) facts.ElementKind {
	switch {
	case f.Kind.IsType():
		return f.Kind
	case f.DeclaringTypeKind != facts.KindInvalid:
		return f.DeclaringTypeKind
	case f.Enclosing != nil:
		return f.Enclosing.Kind
	}
	return facts.KindInvalid
}
