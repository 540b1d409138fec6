package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/sgviz/pkg/buildinfo"
	"github.com/matzehuels/sgviz/pkg/cache"
	"github.com/matzehuels/sgviz/pkg/errors"
	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/pipeline"
	"github.com/matzehuels/sgviz/pkg/render"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// handleLayout computes a layout for the graph in the request body and
// returns it as layout JSON.
//
//	POST /api/v1/layouts?type=bundle&beta=0.5
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, opts, err := s.parseRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	layout, hit, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if data, err := graph.MarshalGraph(g); err == nil {
		w.Header().Set("X-Graph-Hash", cache.Hash(data))
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	respondJSON(w, http.StatusOK, layout)
}

// handleRender computes a layout and renders a single artifact.
//
//	POST /api/v1/render?type=force&format=svg&tooltips=true
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	g, opts, err := s.parseRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	layout, err := s.runner.GenerateLayout(r.Context(), g, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), layout, &g, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// parseRequest decodes the body as an entity graph or a security group
// export and applies query parameters over the server defaults.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (graph.Graph, pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return graph.Graph{}, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(body) == 0 {
		return graph.Graph{}, pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}

	g, err := pipeline.DecodeInput(body, bodyName(r.Header.Get("Content-Type")))
	if err != nil {
		return graph.Graph{}, pipeline.Options{}, err
	}

	opts := s.defaults
	opts.Formats = append([]string(nil), s.defaults.Formats...)
	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		return graph.Graph{}, pipeline.Options{}, err
	}
	return g, opts, nil
}

// bodyName maps a content type onto a file name so the decoder can pick
// JSON or YAML by extension.
func bodyName(contentType string) string {
	mt, _, _ := mime.ParseMediaType(contentType)
	if strings.Contains(mt, "yaml") {
		return "body.yaml"
	}
	return "body.json"
}

func applyQuery(opts *pipeline.Options, q url.Values) error {
	if v := q.Get("type"); v != "" {
		if err := pipeline.ValidateVizType(v); err != nil {
			return err
		}
		opts.VizType = v
	}

	floats := map[string]*float64{
		"width":         &opts.Width,
		"height":        &opts.Height,
		"repulsion":     &opts.Repulsion,
		"link_distance": &opts.LinkDistance,
		"radius_margin": &opts.RadiusMargin,
		"scale":         &opts.Scale,
	}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", name, v)
			}
			*dst = f
		}
	}
	if v := q.Get("beta"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "beta: not a number: %q", v)
		}
		opts.Beta = &f
	}
	if v := q.Get("ticks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "ticks: not an integer: %q", v)
		}
		opts.Ticks = n
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "seed: not an unsigned integer: %q", v)
		}
		opts.Seed = n
		opts.RandomStart = true
	}

	bools := map[string]*bool{
		"detailed":    &opts.Detailed,
		"interactive": &opts.Interactive,
		"tooltips":    &opts.Tooltips,
	}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s: not a boolean: %q", name, v)
			}
			*dst = b
		}
	}
	return nil
}

// statusFor maps error codes onto HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidVizType:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidReference, errors.ErrCodeInvalidSecurityGroup,
		errors.ErrCodeDegenerateGeometry, errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)

	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		msg = "internal error"
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}

	respondJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Code:      string(code),
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
