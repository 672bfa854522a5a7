package controllers

import (
	"net/http"

	"github.com/halisahar-connect/civic-portal/api/responses"
	"github.com/halisahar-connect/civic-portal/api/validators"
	"github.com/halisahar-connect/civic-portal/internal/complaints"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
	"github.com/halisahar-connect/civic-portal/pkg/visibility"
)

// createComplaintRequest accepts status and userId so older clients keep
// working; both are discarded in favour of pending and the caller.
type createComplaintRequest struct {
	Category         string   `json:"category" validate:"required"`
	OtherDescription string   `json:"otherDescription" validate:"max=1000"`
	ImageURL         string   `json:"imageUrl"`
	ImageURLs        []string `json:"imageUrls"`
	Latitude         *float64 `json:"latitude" validate:"required"`
	Longitude        *float64 `json:"longitude" validate:"required"`
	Address          string   `json:"address" validate:"required,max=500"`
	WardNumber       int      `json:"wardNumber" validate:"required"`
	Status           string   `json:"status"`
	UserID           string   `json:"userId"`
}

func (r createComplaintRequest) toInput() (complaints.CreateInput, error) {
	category, err := enums.ParseComplaintCategory(r.Category)
	if err != nil {
		return complaints.CreateInput{}, pkgerrors.Invalid("validation failed", map[string]string{"category": "is invalid"})
	}
	return complaints.CreateInput{
		Category:         category,
		OtherDescription: validators.SanitizeString(r.OtherDescription, 1000),
		ImageURL:         r.ImageURL,
		ImageURLs:        r.ImageURLs,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Address:          validators.SanitizeString(r.Address, 500),
		WardNumber:       r.WardNumber,
	}, nil
}

type updateComplaintRequest struct {
	Status           string  `json:"status" validate:"required"`
	SolutionImageURL *string `json:"solutionImageUrl"`
	ResolutionNote   *string `json:"resolutionNote"`
}

func (r updateComplaintRequest) toInput() (complaints.UpdateStatusInput, error) {
	status, err := enums.ParseComplaintStatus(r.Status)
	if err != nil {
		return complaints.UpdateStatusInput{}, pkgerrors.Invalid("validation failed", map[string]string{"status": "is invalid"})
	}
	return complaints.UpdateStatusInput{
		Status:           status,
		SolutionImageURL: r.SolutionImageURL,
		ResolutionNote:   r.ResolutionNote,
	}, nil
}

// ComplaintCreate files a complaint owned by the authenticated caller.
func ComplaintCreate(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaint service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createComplaintRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		complaint, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, complaints.FromModel(complaint))
	}
}

// ComplaintsMine returns the caller's complaints, newest first.
func ComplaintsMine(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaint service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaints.FromModels(list))
	}
}

// ComplaintsMineStats counts the caller's complaints by status.
func ComplaintsMineStats(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaint service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), &userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminComplaints lists every complaint, optionally narrowed by ward,
// category and status query parameters.
func AdminComplaints(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaint service unavailable"))
			return
		}

		filter, err := parseComplaintFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListAll(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaints.FromModels(list))
	}
}

// AdminComplaintStats counts every complaint by status.
func AdminComplaintStats(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaint service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context(), nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminComplaintUpdate changes a complaint's status and solution evidence.
// Omitted evidence fields keep their stored values.
func AdminComplaintUpdate(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaint service unavailable"))
			return
		}

		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateComplaintRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		complaint, err := svc.UpdateStatus(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, complaints.FromModel(complaint))
	}
}

func parseComplaintFilter(r *http.Request) (complaints.ListFilter, error) {
	var filter complaints.ListFilter

	ward, err := validators.ParseOptionalQueryInt(r, "ward", visibility.MinWard, visibility.MaxWard)
	if err != nil {
		return filter, err
	}
	filter.WardNumber = ward

	if raw := validators.ParseOptionalQueryString(r, "category"); raw != nil {
		category, err := enums.ParseComplaintCategory(*raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter").WithDetails(map[string]any{"field": "category"})
		}
		filter.Category = &category
	}

	if raw := validators.ParseOptionalQueryString(r, "status"); raw != nil {
		status, err := enums.ParseComplaintStatus(*raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").WithDetails(map[string]any{"field": "status"})
		}
		filter.Status = &status
	}
	return filter, nil
}
