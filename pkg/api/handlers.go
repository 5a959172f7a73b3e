package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/flowlayout/pkg/buildinfo"
	"github.com/matzehuels/flowlayout/pkg/cache"
	flowerrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

type layoutRequest struct {
	Graph   json.RawMessage `json:"graph"`
	Options json.RawMessage `json:"options,omitempty"`
}

type renderRequest struct {
	Graph   json.RawMessage `json:"graph,omitempty"`
	Layout  json.RawMessage `json:"layout,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleLayout handles POST /v1/layout.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, err := decodeGraph(req.Graph)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	runner, err := s.scopedRunner(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout)
	defer cancel()

	l, hit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := graph.MarshalLayout(l)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set(HeaderCache, cacheHeader(hit))
	writeBytes(w, pipeline.ContentType(pipeline.FormatJSON), data)
}

// handleRender handles POST /v1/render. The body holds either a graph,
// which is laid out first, or a previously computed layout.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	hasGraph, hasLayout := present(req.Graph), present(req.Layout)
	if hasGraph == hasLayout {
		s.fail(w, r, flowerrors.New(flowerrors.ErrCodeInvalidInput, "request must contain exactly one of graph or layout"))
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	runner, err := s.scopedRunner(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout)
	defer cancel()

	var (
		artifact []byte
		hit      bool
	)
	if hasLayout {
		l, err := graph.UnmarshalLayout(req.Layout)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		artifact, hit, err = runner.RenderWithCacheInfo(ctx, l, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	} else {
		g, err := decodeGraph(req.Graph)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		res, err := runner.Execute(ctx, g, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		artifact, hit = res.Artifact, res.CacheInfo.RenderHit
	}

	w.Header().Set(HeaderCache, cacheHeader(hit))
	writeBytes(w, pipeline.ContentType(opts.Format), artifact)
}

// decode reads the JSON body into v, answering the request itself on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, string(flowerrors.ErrCodeInvalidInput), "request body too large")
			return false
		}
		s.fail(w, r, flowerrors.Wrap(flowerrors.ErrCodeInvalidFormat, err, "decode request body"))
		return false
	}
	return true
}

// options decodes request options on top of the server defaults and
// validates the result.
func (s *Server) options(raw json.RawMessage) (pipeline.Options, error) {
	opts := s.opts.Defaults
	opts.Logger = s.logger
	if present(raw) {
		if err := json.Unmarshal(raw, &opts); err != nil {
			return pipeline.Options{}, flowerrors.Wrap(flowerrors.ErrCodeInvalidFormat, err, "decode options")
		}
	}
	if err := opts.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// scopedRunner returns a runner whose cache keys live in the request's
// namespace. Runners carry no per-run state, so a shallow copy is enough.
func (s *Server) scopedRunner(r *http.Request) (*pipeline.Runner, error) {
	ns := r.Header.Get(HeaderNamespace)
	if ns == "" {
		ns = s.opts.Namespace
	}
	if ns == "" {
		return s.runner, nil
	}
	if !validNamespace(ns) {
		return nil, flowerrors.New(flowerrors.ErrCodeInvalidInput, "invalid namespace %q", ns)
	}
	scoped := *s.runner
	scoped.Keyer = cache.NewScopedKeyer(s.runner.Keyer, ns)
	return &scoped, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := flowerrors.HTTPStatus(err)
	code := string(flowerrors.GetCode(err))
	msg := flowerrors.UserMessage(err)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status, code, msg = http.StatusGatewayTimeout, string(flowerrors.ErrCodeTimeout), "request timed out"
	case errors.Is(err, context.Canceled):
		status, code, msg = http.StatusServiceUnavailable, string(flowerrors.ErrCodeTimeout), "request cancelled"
	case code == "":
		code = string(flowerrors.ErrCodeInternal)
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
		if code == string(flowerrors.ErrCodeInternal) {
			msg = "internal error"
		}
	}
	writeError(w, status, code, msg)
}

func decodeGraph(raw json.RawMessage) (graph.Graph, error) {
	if !present(raw) {
		return graph.Graph{}, flowerrors.New(flowerrors.ErrCodeInvalidInput, "graph is required")
	}
	return graph.UnmarshalGraph(raw)
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func validNamespace(ns string) bool {
	if len(ns) > 64 {
		return false
	}
	for _, c := range ns {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}
