package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RPCHandler handles JSON-RPC method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, actorID, method string, params json.RawMessage) (any, error)
}

// codedError is implemented by domain errors that carry a stable code.
type codedError interface {
	CodeValue() string
	MessageValue() string
	DetailsValue() any
	RecoveryHintValue() string
}

// protocolError is implemented by errors that map to a JSON-RPC error code.
type protocolError interface {
	JSONRPCCode() int
}

// Server wires HTTP handlers.
type Server struct {
	handler RPCHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware. authMiddleware may
// be nil, in which case calls are attributed to no actor.
func NewServer(handler RPCHandler, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	srv := &Server{handler: handler, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		if errors.Is(err, ErrParse) {
			WriteError(w, nil, ErrParseCode, "parse error", nil)
			return
		}
		WriteError(w, nil, ErrInvalidReq, err.Error(), nil)
		return
	}

	actorID, _ := ActorFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), actorID, req.Method, req.Params)
	if err != nil {
		s.writeHandlerError(w, r, req, err)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) writeHandlerError(w http.ResponseWriter, r *http.Request, req Request, err error) {
	var coded codedError
	if errors.As(err, &coded) {
		WriteError(w, req.ID, ErrApplication, coded.MessageValue(), map[string]any{
			"code":          coded.CodeValue(),
			"details":       coded.DetailsValue(),
			"recovery_hint": coded.RecoveryHintValue(),
		})
		return
	}
	var proto protocolError
	if errors.As(err, &proto) {
		WriteError(w, req.ID, proto.JSONRPCCode(), err.Error(), nil)
		return
	}
	s.logger.Error("rpc call failed", "method", req.Method, "request_id", middleware.GetReqID(r.Context()), "error", err)
	WriteError(w, req.ID, ErrInternal, "internal error", nil)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
