package controllers

import (
	"errors"
	"net/http"

	"github.com/halisahar-connect/civic-portal/api/responses"
	"github.com/halisahar-connect/civic-portal/internal/media"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
)

const uploadFormField = "image"

// multipart overhead allowed on top of the file itself
const multipartSlack = 1 << 20

// MediaUpload accepts a single multipart image under the "image" field and
// returns its hosted URL.
func MediaUpload(svc media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartSlack)
		}

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid("file too large", map[string]string{uploadFormField: "exceeds upload limit"}))
			case errors.Is(err, http.ErrMissingFile):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Invalid("No file uploaded", map[string]string{uploadFormField: "is required"}))
			default:
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			}
			return
		}
		defer file.Close()

		result, err := svc.UploadImage(r.Context(), userID, media.UploadInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
