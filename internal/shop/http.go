package shop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"BuildSupply/internal/cart"
	"BuildSupply/internal/search"
	"BuildSupply/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Service *Service
	Log     *zap.Logger
}

type searchReq struct {
	Queries []string `json:"queries"`
}

type searchResp struct {
	Results []search.Result `json:"results"`
}

type cartReq struct {
	UserID string      `json:"user_id"`
	Items  []cart.Item `json:"items"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	results, err := s.Service.Search(r.Context(), req.Queries)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, searchResp{Results: results})
}

func (s *Server) searchOne(w http.ResponseWriter, r *http.Request) {
	res, err := s.Service.SearchOne(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) cartAdd(w http.ResponseWriter, r *http.Request) {
	s.cartMutation(w, r, s.Service.AddToCart)
}

func (s *Server) cartRemove(w http.ResponseWriter, r *http.Request) {
	s.cartMutation(w, r, s.Service.RemoveFromCart)
}

func (s *Server) cartMutation(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID string, items []cart.Item) (CartView, error)) {
	var req cartReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	v, err := fn(r.Context(), req.UserID, req.Items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) cartGet(w http.ResponseWriter, r *http.Request) {
	v, err := s.Service.Cart(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *ValidationError
		nerr *NotFoundError
	)

	switch {
	case errors.As(err, &verr):
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", map[string]any{
			"field":  verr.Field,
			"reason": verr.Reason,
		})
	case errors.As(err, &nerr):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{
			"field":      nerr.Field,
			"product_id": nerr.ProductID,
		})
	case errors.Is(err, cart.ErrQuantityOverflow):
		kit.WriteError(w, r, http.StatusBadRequest, "quantity overflow", nil)
	case errors.Is(err, context.DeadlineExceeded):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		if s.Log != nil {
			s.Log.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
