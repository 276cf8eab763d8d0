package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/io"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
	"github.com/matzehuels/shadergraph/pkg/store"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// =============================================================================
// Wire types
// =============================================================================

type compileRequest struct {
	Graph    json.RawMessage `json:"graph"`
	Target   graph.Target    `json:"target,omitempty"`
	Validate bool            `json:"validate,omitempty"`
	Refresh  bool            `json:"refresh,omitempty"`
	Blocks   []string        `json:"blocks,omitempty"`
}

type compileResponse struct {
	Code      *graph.Code `json:"code"`
	Source    string      `json:"source"`
	Hash      string      `json:"hash"`
	Validated bool        `json:"validated"`
	CacheHit  bool        `json:"cache_hit"`
}

type evaluateResponse struct {
	Node  graph.NodeID `json:"node"`
	Value value.Value  `json:"value"`
	Text  string       `json:"text"`
}

type graphRequest struct {
	Name  string          `json:"name"`
	Graph json.RawMessage `json:"graph"`
}

type nodeTypeJSON struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    []string     `json:"category,omitempty"`
	Inputs      []socketJSON `json:"inputs,omitempty"`
	Outputs     []socketJSON `json:"outputs,omitempty"`
	Params      []paramJSON  `json:"params,omitempty"`
}

type socketJSON struct {
	Name    string       `json:"name"`
	Kind    value.Kind   `json:"kind"`
	Default *value.Value `json:"default,omitempty"`
}

type paramJSON struct {
	Name    string       `json:"name"`
	Options []string     `json:"options,omitempty"`
	Default *value.Value `json:"default,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	types := s.Registry.Types()
	out := make([]nodeTypeJSON, len(types))
	for i, t := range types {
		out[i] = describe(t)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func describe(t *graph.NodeType) nodeTypeJSON {
	n := nodeTypeJSON{Name: t.Name, Description: t.Description, Category: t.Category}
	for _, in := range t.Inputs {
		def := in.Default
		n.Inputs = append(n.Inputs, socketJSON{Name: in.Name, Kind: in.Kind, Default: &def})
	}
	for _, o := range t.Outputs {
		n.Outputs = append(n.Outputs, socketJSON{Name: o.Name, Kind: o.Kind})
	}
	for _, p := range t.Params {
		pj := paramJSON{Name: p.Name, Options: p.Options}
		if len(p.Options) == 0 {
			def := p.Default
			pj.Default = &def
		}
		n.Params = append(n.Params, pj)
	}
	return n
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, err := s.graphFrom(req.Graph)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := s.Defaults
	if req.Target != "" {
		opts.Target = req.Target
	}
	if req.Blocks != nil {
		opts.Blocks = req.Blocks
	}
	opts.Validate = opts.Validate || req.Validate
	opts.Refresh = req.Refresh
	s.compile(w, r, g, opts)
}

func (s *Server) compile(w http.ResponseWriter, r *http.Request, g *graph.Graph, opts pipeline.Options) {
	res, err := s.Runner.Compile(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, compileResponse{
		Code:      res.Code,
		Source:    res.Source,
		Hash:      res.GraphHash,
		Validated: res.Validated,
		CacheHit:  res.CacheHit,
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var id graph.NodeID
	if q := r.URL.Query().Get("node"); q != "" {
		n, err := strconv.ParseUint(q, 10, 64)
		if err != nil || n == 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", q))
			return
		}
		id = graph.NodeID(n)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	g, err := io.ReadGraph(r.Body, s.Registry)
	if err != nil {
		s.writeError(w, err)
		return
	}
	v, err := s.Runner.Evaluate(r.Context(), g, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if id == 0 {
		id, _ = g.Output()
	}
	s.writeJSON(w, http.StatusOK, evaluateResponse{Node: id, Value: v, Text: v.String()})
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	docs, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	s.writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	s.saveGraph(w, r, uuid.New(), http.StatusCreated)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.saveGraph(w, r, id, http.StatusOK)
}

// saveGraph stores the request graph under id after checking that it
// decodes against the registry.
func (s *Server) saveGraph(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, err := s.graphFrom(req.Graph)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := io.MarshalGraph(g)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc := &store.Document{ID: id, Name: req.Name, Graph: data}
	if err := s.Store.Save(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	s.Logger.Info("saved graph", "id", id, "name", req.Name, "nodes", g.Len())
	s.writeJSON(w, status, doc)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	doc, err := s.Store.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompileStored(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	doc, err := s.Store.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g, err := doc.Decode(s.Registry)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := s.Defaults
	q := r.URL.Query()
	if t := q.Get("target"); t != "" {
		opts.Target = graph.Target(t)
	}
	if v := q.Get("validate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid validate flag %q", v))
			return
		}
		opts.Validate = b
	}
	s.compile(w, r, g, opts)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) graphFrom(raw json.RawMessage) (*graph.Graph, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing graph")
	}
	return io.UnmarshalGraph(raw, s.Registry)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return false
	}
	return true
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Node    string      `json:"node,omitempty"`
	Block   string      `json:"block,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	node, block := errors.Context(err)
	s.writeJSON(w, status, map[string]errorBody{"error": {
		Code:    code,
		Message: errors.UserMessage(err),
		Node:    node,
		Block:   block,
	}})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnknownNodeType, errors.ErrCodeNodeNotFound, errors.ErrCodeInvalidSocket,
		errors.ErrCodeInvalidParam, errors.ErrCodeTypeMismatch, errors.ErrCodeWouldCreateCycle,
		errors.ErrCodeCycleDetected, errors.ErrCodeNotEvaluable, errors.ErrCodeUnboundBlock,
		errors.ErrCodeMissingOutputNode, errors.ErrCodeShaderInvalid:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeJSON encodes v before writing the header, so an encode failure is
// still reported as an error response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.Logger.Debug("write response", "err", err)
	}
}
