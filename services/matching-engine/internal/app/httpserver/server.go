package httpserver

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/httplib/healthcheck"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/util"
	marketdatav1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/market-data/v1"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// Response is the envelope of every API response.
type Response struct {
	Status    string                 `json:"status"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Code      int                    `json:"code"`
	Data      any                    `json:"data,omitempty"`
	Errors    []*errors.ErrorDetails `json:"errors,omitempty"`
}

// Server exposes the read side of an engine over HTTP.
type Server struct {
	engine orderbookv1.Engine
	pair   string
	scale  quant.Scale
	logger *logger.Logger
	clock  func() time.Time

	handler http.Handler
	server  *http.Server
}

// NewServer builds the API handler for engine. checks are served on GET /health.
func NewServer(engine orderbookv1.Engine, pair string, scale quant.Scale, checks map[string]healthcheck.Check, log *logger.Logger) *Server {
	s := &Server{
		engine: engine,
		pair:   pair,
		scale:  scale,
		logger: log.WithFields(logger.Field{Key: "component", Value: "http"}),
		clock:  time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/orderbook", s.getOrderBook)
	mux.HandleFunc("GET /v1/depth", s.getDepth)
	mux.HandleFunc("GET /v1/stats", s.getStats)
	mux.HandleFunc("GET /v1/trades", s.getTrades)
	mux.HandleFunc("GET /v1/orders", s.getOrders)
	mux.HandleFunc("GET /v1/orders/active", s.getActiveOrders)
	mux.HandleFunc("GET /v1/orders/{id}", s.getOrder)
	mux.HandleFunc("GET /v1/candles", s.getCandles)

	s.handler = util.RequestIDMiddleware(healthcheck.New(checks).Handler(mux))
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until Shutdown is called. It returns nil
// without serving when Shutdown has already run.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.NewTracer("http_listen_error").Wrap(err)
	}
	return s.Serve(lis)
}

// Serve accepts connections on lis until Shutdown is called. lis is closed on return.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("HTTP server listening", logger.Field{Key: "addr", Value: lis.Addr().String()})
	if err := s.server.Serve(lis); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.NewTracer("http_serve_error").Wrap(err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones. A later
// ListenAndServe or Serve returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) getOrderBook(w http.ResponseWriter, r *http.Request) {
	depth := orderbookv1.NewDepth(s.engine.GetOrderBook())
	s.ok(w, r, marketdatav1.NewBook(s.pair, s.scale, depth, s.clock()))
}

func (s *Server) getDepth(w http.ResponseWriter, r *http.Request) {
	levels, err := intParam(r, "levels")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, r, marketdatav1.NewBook(s.pair, s.scale, s.engine.GetDepth(levels), s.clock()))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	s.ok(w, r, marketdatav1.NewStats(s.pair, s.scale, s.engine.GetMarketStats(), s.clock()))
}

func (s *Server) getTrades(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, r, marketdatav1.NewTrades(s.scale, s.engine.GetRecentTrades(limit)))
}

func (s *Server) getOrders(w http.ResponseWriter, r *http.Request) {
	s.ok(w, r, marketdatav1.NewOrders(s.scale, s.engine.GetAllOrders()))
}

func (s *Server) getActiveOrders(w http.ResponseWriter, r *http.Request) {
	s.ok(w, r, marketdatav1.NewOrders(s.scale, s.engine.GetActiveOrders()))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.engine.GetOrder(r.PathValue("id"))
	if !ok {
		s.write(w, r, http.StatusNotFound, Response{
			Message: "order not found",
			Errors:  []*errors.ErrorDetails{errors.NewErrorDetails("order not found", errors.GeneralNotFoundError.String(), "id")},
		})
		return
	}
	s.ok(w, r, marketdatav1.NewOrder(s.scale, order))
}

func (s *Server) getCandles(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	name := r.URL.Query().Get("interval")
	if name == "" {
		name = "1m"
	}
	candles, err := s.engine.GetCandles(name, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, r, marketdatav1.NewCandles(s.scale, candles))
}

// intParam reads a non-negative integer query parameter. Absent means 0.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		v := errors.NewValidationError()
		v.Add(errors.GeneralBadRequestError, name, name+" must be a non-negative integer")
		return 0, v
	}
	return n, nil
}

func (s *Server) ok(w http.ResponseWriter, r *http.Request, data any) {
	s.write(w, r, http.StatusOK, Response{Message: "success", Data: data})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if v, ok := errors.AsValidationError(err); ok {
		s.write(w, r, http.StatusBadRequest, Response{Message: "invalid request", Errors: v.GetDetails()})
		return
	}

	s.logger.ErrorContext(r.Context(), err, logger.Field{Key: "path", Value: r.URL.Path})
	s.write(w, r, http.StatusInternalServerError, Response{Message: "internal error"})
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, code int, resp Response) {
	resp.Status = http.StatusText(code)
	resp.Code = code
	resp.Timestamp = s.clock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.ErrorContext(r.Context(), errors.NewTracer("http_encode_error").Wrap(err))
	}
}
