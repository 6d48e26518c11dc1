// Package reifier drives the specialization of one generic type per request:
// it validates the request, resolves the abstract methods, classifies and
// synthesizes them and assembles the generated type descriptor. A request
// either yields a complete descriptor or reports every failure it found.
package reifier

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bisgardo/reification/internal/builder"
	"github.com/bisgardo/reification/internal/classifier"
	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/resolver"
	"github.com/bisgardo/reification/internal/synth"
	"github.com/bisgardo/reification/internal/typegraph"
)

// InitMessage is reported once when a reifier is created
const InitMessage = "Initializing '@Reify'-annotation processor"

// Options configures a reifier
type Options struct {
	Resolver  resolver.Options    // hierarchy walk limits
	Prefixes  []classifier.Prefix // method name convention, empty for the default
	Separator string              // generated name separator, empty for "$"
	Workers   int                 // parallel request limit for ProcessAll, <= 0 means unlimited
}

// Reifier processes reification requests over one immutable graph snapshot
type Reifier struct {
	graph      typegraph.Graph
	sink       Sink
	resolver   *resolver.Resolver
	classifier *classifier.Classifier
	synth      *synth.Synthesizer
	builder    *builder.Builder
	workers    int
}

// New creates a reifier and reports the initialization note to sink
func New(graph typegraph.Graph, sink Sink, opts Options) *Reifier {
	if sink == nil {
		sink = SinkFunc(func(models.Diagnostic) {})
	}
	r := &Reifier{
		graph:      graph,
		sink:       sink,
		resolver:   resolver.New(graph, opts.Resolver),
		classifier: classifier.New(opts.Prefixes),
		synth:      synth.New(graph),
		builder:    builder.New(opts.Separator),
		workers:    opts.Workers,
	}
	sink.Report(models.Diagnostic{Severity: models.SeverityNote, Message: InitMessage})
	return r
}

// Result is the outcome of one request
type Result struct {
	Request    models.ReificationRequest
	Descriptor *models.GeneratedTypeDescriptor // nil when skipped or failed
	Warnings   []models.Diagnostic             // non-fatal findings
	Err        error                           // all failures of the request, nil on success
	Skipped    bool                            // request binds no type parameter
}

// OK reports whether the request produced a descriptor
func (r Result) OK() bool {
	return r.Descriptor != nil
}

// Diagnostics returns the result's warnings followed by one ERROR per failure
func (r Result) Diagnostics() []models.Diagnostic {
	diags := append([]models.Diagnostic(nil), r.Warnings...)
	for _, err := range errors.Flatten(r.Err) {
		anchor := err.Location()
		if anchor.File == "" {
			anchor = r.Request.Anchor
		}
		diags = append(diags, models.Diagnostic{
			Severity: models.SeverityError,
			Message:  err.Summary(),
			Anchor:   anchor,
		})
	}
	return diags
}

// Process evaluates one request and reports its diagnostics
func (r *Reifier) Process(req models.ReificationRequest) Result {
	res := r.Evaluate(req)
	r.report(res)
	return res
}

// ProcessAll evaluates independent requests in parallel and reports their
// diagnostics in request order. Results are indexed like reqs.
func (r *Reifier) ProcessAll(reqs []models.ReificationRequest) []Result {
	results := make([]Result, len(reqs))

	var g errgroup.Group
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = r.Evaluate(req)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		r.report(res)
	}
	return results
}

func (r *Reifier) report(res Result) {
	for _, d := range res.Diagnostics() {
		r.sink.Report(d)
	}
}

// Evaluate runs the request without reporting. The graph is only read, so
// Evaluate may be called concurrently.
func (r *Reifier) Evaluate(req models.ReificationRequest) Result {
	res := Result{Request: req}

	target := r.graph.Node(req.Target)
	if target == nil {
		res.Err = errors.Newf(errors.UnknownErrorCode, "no type with handle %d", req.Target).WithLocation(req.Anchor)
		return res
	}

	binding, skip, err := r.validate(target, req)
	if err != nil {
		res.Err = err
		return res
	}
	if skip {
		res.Skipped = true
		return res
	}
	bound := *binding.Type

	set, err := r.resolver.Resolve(req.Target)
	if err != nil {
		res.Err = err
		return res
	}

	failures := errors.NewMultipleErrors()
	var specs []models.MethodSpec
	unimplemented := false

	for _, cm := range r.classifier.Classify(set.Methods(), binding) {
		if cm.Reserved {
			res.Warnings = append(res.Warnings, models.Diagnostic{
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Auto-implementation of abstract method '%s' is not yet implemented", cm.Method.Name),
				Anchor:   target.Location,
			})
		}

		spec, ok, err := r.synth.Synthesize(cm)
		if err != nil {
			failures.Add(asReifyError(err))
			continue
		}
		if !ok {
			unimplemented = true
			continue
		}
		specs = append(specs, spec)
	}

	if !failures.IsEmpty() {
		res.Err = failures.ErrorOrNil()
		return res
	}

	res.Descriptor = r.builder.Build(target, bound, specs, unimplemented)
	return res
}

// validate applies the request rejections in order. It returns the single
// bound binding, or skip=true when no parameter is bound.
func (r *Reifier) validate(target *models.TypeDeclaration, req models.ReificationRequest) (models.Binding, bool, error) {
	name := target.QualifiedName()

	switch r.placement(target) {
	case models.InnerNested:
		return models.Binding{}, false, errors.NewUnsupportedConstructError("inner-class",
			fmt.Sprintf("'@Reify'-annotation in non-static inner class '%s' is %s", name, errors.NotSupported), target.Location)
	case models.StaticNested:
		return models.Binding{}, false, errors.NewUnsupportedConstructError("static-nested-class",
			fmt.Sprintf("'@Reify'-annotation in static inner class '%s' is %s", name, errors.NotYetImplemented), target.Location)
	}

	if target.Modifiers.Has(models.Final) {
		return models.Binding{}, false, errors.NewUnsupportedConstructError("final-class",
			fmt.Sprintf("'@Reify'-annotation in final class '%s' is %s", name, errors.NotYetImplemented), target.Location)
	}

	if len(target.TypeParams) == 0 {
		return models.Binding{}, false, errors.NewUnsupportedConstructError("no-type-parameters",
			fmt.Sprintf("class '%s' without type parameters not expected", name), target.Location)
	}
	if len(target.TypeParams) > 1 {
		params := make([]string, len(target.TypeParams))
		for i, tp := range target.TypeParams {
			params[i] = tp.Name
		}
		return models.Binding{}, false, errors.NewUnsupportedConstructError("multiple-type-parameters",
			fmt.Sprintf("'@Reify'-annotation in class '%s' with multiple type variables [%s] is %s",
				name, strings.Join(params, ", "), errors.NotYetImplemented), target.Location)
	}

	bound := req.Bound()
	if len(bound) == 0 {
		return models.Binding{}, true, nil
	}
	if len(bound) > 1 {
		return models.Binding{}, false, errors.NewUnsupportedConstructError("multiple-bindings",
			fmt.Sprintf("binding %d type parameters of '%s' at once is %s", len(bound), name, errors.NotYetImplemented), req.Anchor)
	}
	binding := bound[0]

	for _, tp := range target.TypeParams {
		if tp.Name == binding.Param && len(tp.Bindings) > 1 {
			return models.Binding{}, false, errors.NewUnsupportedConstructError("repeated-marker",
				fmt.Sprintf("repeated '@Reify'-annotations is %s", errors.NotYetImplemented), tp.Location)
		}
	}

	t := *binding.Type
	if t.IsPrimitive() {
		return models.Binding{}, false, errors.NewUnsupportedConstructError("primitive-binding",
			fmt.Sprintf("'@Reify'-annotation with primitive type '%s' on type parameter is %s", t, errors.NotYetImplemented), req.Anchor)
	}
	if !t.IsDeclared() {
		return models.Binding{}, false, errors.NewUnsupportedConstructError("non-declared-binding",
			fmt.Sprintf("expected type '%s' of kind '%s' to be of kind 'DECLARED'", t, t.Kind), req.Anchor)
	}

	return binding, false, nil
}

// placement classifies the target like TypeDeclaration.Placement, also
// counting types nested in an interface as static
func (r *Reifier) placement(target *models.TypeDeclaration) models.Placement {
	p := target.Placement()
	if p != models.InnerNested {
		return p
	}
	if h, ok := r.graph.Lookup(target.Enclosing); ok {
		if enclosing := r.graph.Node(h); enclosing != nil && enclosing.Kind == models.InterfaceKind {
			return models.StaticNested
		}
	}
	return p
}

func asReifyError(err error) errors.ReifyError {
	if re, ok := err.(errors.ReifyError); ok {
		return re
	}
	return errors.New(errors.UnknownErrorCode, err.Error())
}
