package server

import (
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/generator"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/parser"
	"github.com/bisgardo/reification/internal/reifier"
	"github.com/bisgardo/reification/internal/typegraph"
)

var (
	validate      = newValidator()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// newValidator reports fields by their wire names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			if name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]; name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// ReifyQuery holds the per-round overrides accepted in the query string
type ReifyQuery struct {
	Format    string `schema:"format" validate:"omitempty,oneof=java json"`
	Separator string `schema:"separator" validate:"omitempty,max=8"`
	Strict    *bool  `schema:"strict"`
}

// ReifyRequest is the body of POST /v1/reify: input file name to content
type ReifyRequest struct {
	Sources map[string]string `json:"sources" validate:"required,min=1,dive,keys,required,endkeys"`
}

// ReifyResponse reports one round
type ReifyResponse struct {
	RequestID   string                  `json:"request_id"`
	Requests    int                     `json:"requests"`
	Failed      int                     `json:"failed"`
	Files       []*models.GeneratedFile `json:"files"`
	Diagnostics []models.Diagnostic     `json:"diagnostics"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleReify(c echo.Context) error {
	var query ReifyQuery
	if err := schemaDecoder.Decode(&query, c.QueryParams()); err != nil {
		return ErrBadRequest("invalid query", errors.Wrap(errors.ValidationErrorCode, "failed to decode query", err))
	}
	if err := validate.Struct(query); err != nil {
		return ErrBadRequest("invalid query", errors.FromValidation("query", err))
	}

	var req ReifyRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return ErrBadRequest("invalid request body", errors.Wrap(errors.ValidationErrorCode, "failed to decode body", err))
	}
	if err := validate.Struct(req); err != nil {
		return ErrBadRequest("invalid request body", errors.FromValidation("request", err))
	}
	if err := checkFileNames(req.Sources); err != nil {
		return ErrBadRequest("invalid request body", err)
	}

	opts, format := s.roundOptions(query)
	resp, err := s.runRound(req.Sources, opts, format)
	if err != nil {
		return err
	}
	resp.RequestID = requestID(c)

	s.logger.Debug("round finished",
		zap.String(FieldRequestID, resp.RequestID),
		zap.Int(FieldCount, resp.Requests),
		zap.Int("failed", resp.Failed))
	return c.JSON(http.StatusOK, resp)
}

// checkFileNames rejects sources the parser would not recognize
func checkFileNames(sources map[string]string) error {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	collected := errors.NewMultipleErrors()
	for _, name := range names {
		if !parser.IsInputFile(name) {
			collected.Add(errors.NewValidationError("sources",
				fmt.Sprintf("a file name ending in %s or %s", parser.DeclExtension, parser.SnapshotExtension), name))
		}
	}
	return collected.ErrorOrNil()
}

func (s *Server) roundOptions(query ReifyQuery) (reifier.Options, string) {
	opts := s.opts.Reifier
	format := s.opts.Format
	if query.Format != "" {
		format = query.Format
	}
	if query.Separator != "" {
		opts.Separator = query.Separator
	}
	if query.Strict != nil {
		opts.Resolver.StrictReferences = *query.Strict
	}
	return opts, format
}

// runRound parses, reifies and renders in memory. Input errors become 422
// responses; per-request failures are reported as diagnostics.
func (s *Server) runRound(sources map[string]string, opts reifier.Options, format string) (*ReifyResponse, error) {
	snapshot, err := parser.LoadSources(sources)
	if err != nil {
		return nil, ErrUnprocessableEntity("invalid declarations", err)
	}

	collector := reifier.NewCollector()
	reqs := typegraph.Requests(snapshot)
	results := reifier.New(snapshot, collector, opts).ProcessAll(reqs)

	resp := &ReifyResponse{Requests: len(reqs), Files: make([]*models.GeneratedFile, 0)}
	var descriptors []*models.GeneratedTypeDescriptor
	for _, res := range results {
		switch {
		case res.OK():
			descriptors = append(descriptors, res.Descriptor)
		case !res.Skipped:
			resp.Failed++
		}
	}

	codeGen, err := generator.NewGeneratorWithFormat(format)
	if err != nil {
		return nil, ErrBadRequest("invalid format", err)
	}
	files, err := codeGen.GenerateAll(descriptors)
	if err != nil {
		return nil, errors.WrapGenerateError("generated types", err).WithStage("render")
	}
	resp.Files = append(resp.Files, files...)
	resp.Diagnostics = collector.Diagnostics()
	return resp, nil
}
