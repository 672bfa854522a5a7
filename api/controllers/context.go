package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/api/middleware"
	"github.com/halisahar-connect/civic-portal/api/validators"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
)

func callerID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return id, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return validators.ParseUUID(chi.URLParam(r, "id"), "id")
}
