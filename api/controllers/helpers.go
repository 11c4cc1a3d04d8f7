package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paintdepot/inkstock-backend/api/middleware"
	"github.com/paintdepot/inkstock-backend/api/validators"
	pkgAuth "github.com/paintdepot/inkstock-backend/pkg/auth"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
	"github.com/paintdepot/inkstock-backend/pkg/pagination"
)

func actorFrom(r *http.Request) (pkgAuth.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return actor, nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").
			WithDetails(map[string]string{"param": name})
	}
	return id, nil
}

func parseUUIDQuery(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").
			WithDetails(map[string]string{"param": key})
	}
	return &id, nil
}

// sanitizeNotes trims free-text input and caps it at a length that keeps
// audit rows readable. Returns nil when nothing remains.
func sanitizeNotes(value *string) *string {
	if value == nil {
		return nil
	}
	clean := validators.SanitizeString(*value, 2000)
	if clean == "" {
		return nil
	}
	return &clean
}

func parsePagination(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
