package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"MiniCatalog/pkg/kit"
)

const (
	statusListed  = "Existing Products Retrieved Successfully"
	statusCreated = "New Product Created Successfully"
	statusFound   = "Existing Product Retrieved Successfully"
	statusUpdated = "Existing Product Updated Successfully"
	statusRemoved = "Existing Product Removed Successfully"

	msgNotFoundRoute    = "resource was not found"
	msgMethodNotAllowed = "method is not allowed"
	msgInternal         = "internal server error"

	// StatusHeader carries the status phrase of responses that have no body.
	StatusHeader = "X-Status"

	readyTimeout = 1 * time.Second
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

type productsResponse struct {
	Status   string    `json:"status"`
	Products []Product `json:"products"`
}

type productResponse struct {
	Status  string  `json:"status"`
	Product Product `json:"product"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	doc := NewOpenAPIDoc()
	r.Get("/swagger.json", func(w http.ResponseWriter, _ *http.Request) { kit.WriteJSON(w, http.StatusOK, doc) })

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)

		r.Get("/{id:[0-9]+}", s.get)
		r.Put("/{id:[0-9]+}", s.update)
		r.Delete("/{id:[0-9]+}", s.remove)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.log().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.writeStoreError(w, r, 0, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	kit.WriteJSON(w, http.StatusOK, productsResponse{Status: statusListed, Products: products})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	f, err := parseWriteRequest(w, r)
	if err != nil {
		s.writeStoreError(w, r, 0, err)
		return
	}

	p, err := s.Store.Create(r.Context(), f)
	if err != nil {
		s.writeStoreError(w, r, 0, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, productResponse{Status: statusCreated, Product: p})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := s.Store.Retrieve(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, id, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, productResponse{Status: statusFound, Product: p})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	f, err := parseWriteRequest(w, r)
	if err != nil {
		s.writeStoreError(w, r, id, err)
		return
	}

	p, err := s.Store.Update(r.Context(), id, f)
	if err != nil {
		s.writeStoreError(w, r, id, err)
		return
	}
	kit.WriteJSON(w, http.StatusAccepted, productResponse{Status: statusUpdated, Product: p})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := s.Store.Remove(r.Context(), id); err != nil {
		s.writeStoreError(w, r, id, err)
		return
	}

	// 204 forbids a body, so the phrase travels as a header.
	w.Header().Set(StatusHeader, statusRemoved)
	w.WriteHeader(http.StatusNoContent)
}

// productID rejects ids that match the route digits but overflow int64.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		kit.WriteError(w, http.StatusNotFound, msgNotFoundRoute)
		return 0, false
	}
	return id, true
}

// writeStoreError maps validation failures to 400, ErrNotFound to 404 and
// everything else to 500. id is only used to word the 404 message.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	reqID := chimw.GetReqID(r.Context())

	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		s.log().Debug("invalid write request",
			zap.String("request_id", reqID), zap.Strings("missing", ve.Missing), zap.Error(ve.Cause))
		kit.WriteError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		s.log().Debug("product not found",
			zap.String("request_id", reqID), zap.String("method", r.Method), zap.Int64("id", id))
		kit.WriteError(w, http.StatusNotFound, fmt.Sprintf("product %d was not found", id))
	default:
		s.log().Error("product store failed",
			zap.String("request_id", reqID), zap.String("method", r.Method), zap.Int64("id", id), zap.Error(err))
		kit.WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	kit.WriteError(w, http.StatusNotFound, msgNotFoundRoute)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	kit.WriteError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
