package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/models"
)

type SearchService interface {
	Create(ctx context.Context, ownerID string, req models.CreateSearchRequest) (models.Search, error)
	List(ctx context.Context, ownerID string) ([]models.Search, error)
	Get(ctx context.Context, ownerID, searchID string) (models.Search, error)
	Update(ctx context.Context, ownerID, searchID string, req models.UpdateSearchRequest) (models.Search, error)
	Delete(ctx context.Context, ownerID, searchID string) error
}

type SearchHandler struct {
	svc       SearchService
	validator *validator.Validate
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc, validator: validator.New()}
}

func (h *SearchHandler) CreateSearch(w http.ResponseWriter, r *http.Request) Result {
	user, res, ok := currentUser(r)
	if !ok {
		return res
	}

	var req models.CreateSearchRequest
	if res, ok := h.decode(r, &req, false); !ok {
		return res
	}
	if !ownerMatches(user, req.OwnerID) {
		return Forbidden(msgNotAuthorized)
	}

	created, err := h.svc.Create(r.Context(), user.ID, req)
	if err != nil {
		return FromError(err, "create search: ")
	}

	return Ok(created)
}

func (h *SearchHandler) ListSearches(w http.ResponseWriter, r *http.Request) Result {
	user, res, ok := currentUser(r)
	if !ok {
		return res
	}
	if !ownerMatches(user, r.URL.Query().Get("ownerId")) {
		return Forbidden(msgNotAuthorized)
	}

	searches, err := h.svc.List(r.Context(), user.ID)
	if err != nil {
		return FromError(err, "list searches: ")
	}

	return Ok(searches)
}

func (h *SearchHandler) GetSearch(w http.ResponseWriter, r *http.Request) Result {
	user, res, ok := currentUser(r)
	if !ok {
		return res
	}
	if !ownerMatches(user, r.URL.Query().Get("ownerId")) {
		return Forbidden(msgNotAuthorized)
	}

	search, err := h.svc.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		return FromError(err, "get search: ")
	}

	return Ok(search)
}

func (h *SearchHandler) UpdateSearch(w http.ResponseWriter, r *http.Request) Result {
	user, res, ok := currentUser(r)
	if !ok {
		return res
	}

	var req models.UpdateSearchRequest
	if res, ok := h.decode(r, &req, false); !ok {
		return res
	}
	if !ownerMatches(user, req.OwnerID) {
		return Forbidden(msgNotAuthorized)
	}

	updated, err := h.svc.Update(r.Context(), user.ID, r.PathValue("id"), req)
	if err != nil {
		return FromError(err, "update search: ")
	}

	return Ok(models.UpdateSearchResponse{Message: "Search updated.", Search: updated})
}

func (h *SearchHandler) DeleteSearch(w http.ResponseWriter, r *http.Request) Result {
	user, res, ok := currentUser(r)
	if !ok {
		return res
	}

	var req models.DeleteSearchRequest
	if res, ok := h.decode(r, &req, true); !ok {
		return res
	}
	if !ownerMatches(user, req.OwnerID) {
		return Forbidden(msgNotAuthorized)
	}

	id := r.PathValue("id")
	if req.SearchID != "" && req.SearchID != id {
		return BadRequest("searchId does not match the URL.")
	}

	if err := h.svc.Delete(r.Context(), user.ID, id); err != nil {
		return FromError(err, "delete search: ")
	}

	return Ok(models.MessageResponse{Message: "Search deleted."})
}

// decode reads and validates a JSON body. An empty body is accepted only when allowEmpty is set.
func (h *SearchHandler) decode(r *http.Request, dst any, allowEmpty bool) (Result, bool) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return Result{}, true
		}
		if domain.IsInvalidArgument(err) {
			return BadRequest(domain.MessageOf(err)), false
		}
		return BadRequest("Invalid request."), false
	}

	if err := h.validator.Struct(dst); err != nil {
		return BadRequest(validationMessage(err)), false
	}
	return Result{}, true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request."
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, lowerFirst(fe.Field()))
	}
	return fmt.Sprintf("Invalid value for %s.", strings.Join(fields, ", "))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ownerMatches checks an explicit owner id against the authenticated caller. Omitting it is fine.
func ownerMatches(user models.UserModel, ownerID string) bool {
	return ownerID == "" || ownerID == user.ID
}
