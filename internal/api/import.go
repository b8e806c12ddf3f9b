package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"infinite-experiment/pilotlog/internal/auth"
	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/middleware"
)

// ImportLogbook godoc
// @Summary      Import a logbook export
// @Description  Accepts the export either as a multipart "file" field or as a raw JSON body.
// @Tags         Admin
// @Accept       json,mpfd
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer token"
// @Success      200  {object}  models.ImportReport
// @Failure      400,401,403
// @Router       /api/v1/admin/import [post]
func (h *Handlers) ImportLogbook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		body, source, err := uploadedFile(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer body.Close()

		records, err := common.LoadRecordsReader(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondWithError(w, http.StatusRequestEntityTooLarge, constants.MsgUploadTooLarge)
				return
			}
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		logging.Info("Import requested",
			"request_id", middleware.RequestID(r.Context()),
			"user", auth.Subject(r.Context()),
			"source", source,
			"records", len(records),
		)

		report := h.deps.Services.Import.Import(r.Context(), source, records)
		h.invalidateCache()

		respondWithSuccess(w, http.StatusOK, report)
	}
}

// uploadedFile returns the multipart "file" part, or the request body itself.
func uploadedFile(r *http.Request) (io.ReadCloser, string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.Body, "upload", nil
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return nil, "", errors.New("invalid multipart form")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errors.New("missing file field")
	}
	return file, header.Filename, nil
}
