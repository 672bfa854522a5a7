package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halisahar-connect/civic-portal/api/responses"
	"github.com/halisahar-connect/civic-portal/api/validators"
	"github.com/halisahar-connect/civic-portal/internal/alerts"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
)

type sendAlertRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Ward    string `json:"ward"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

func (r sendAlertRequest) toInput() alerts.CreateInput {
	return alerts.CreateInput{
		Title:   validators.SanitizeString(r.Title, 200),
		Message: validators.SanitizeString(r.Message, 2000),
		Ward:    r.Ward,
		Date:    validators.SanitizeString(r.Date, 32),
		Time:    validators.SanitizeString(r.Time, 32),
	}
}

// AdminSendAlert broadcasts an alert to one ward or to "all".
func AdminSendAlert(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		var body sendAlertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		alert, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, alerts.FromModel(alert))
	}
}

// AlertsForWard is public: it returns the alerts addressed to the ward plus
// the broadcasts addressed to every ward.
func AlertsForWard(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		list, err := svc.ListForWard(r.Context(), chi.URLParam(r, "ward"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts.FromModels(list))
	}
}

func AdminAlerts(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		list, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts.FromModels(list))
	}
}

func AdminDeleteAlert(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}
