// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/service"
	"github.com/MKhiriev/deepguard/internal/utils"
	"github.com/MKhiriev/deepguard/models"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is the part of an upload kept in memory, the rest spills
// to temporary files.
const multipartMemory = 32 << 20

// detect analyses the multipart "file" field and records the verdict in the
// caller's history.
func (h *Handler) detect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	media, closeFile, err := h.readMedia(w, r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeFile()

	if err = h.validator.Validate(ctx, media); err != nil {
		writeError(w, r, err)
		return
	}

	result, item, err := h.services.DetectionService.Analyze(ctx, userID, media)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().
		Str("filename", media.Name).
		Str("verdict", string(result.Verdict)).
		Msg("analysis completed")

	writeJSON(w, r, models.DetectResponse{Result: result, Item: item}, http.StatusOK)
}

// rerun analyses a stored record again. The upload is optional: without
// one the record's filename alone drives the detector. An upload is held to
// the same media rules as detect.
func (h *Handler) rerun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	media, closeFile, err := h.readMedia(w, r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeFile()

	if media.Reader != nil {
		if err = h.validator.Validate(ctx, media); err != nil {
			writeError(w, r, err)
			return
		}
	}

	task, err := h.services.DetectionService.Rerun(ctx, userID, chi.URLParam(r, "id"), media)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, item, err := waitTask(task)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.DetectResponse{Result: result, Item: item}, http.StatusOK)
}

// readMedia extracts the "file" part of a multipart request. The returned
// close func is always safe to call.
func (h *Handler) readMedia(w http.ResponseWriter, r *http.Request, required bool) (models.MediaFile, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if !required && errors.Is(err, http.ErrNotMultipart) {
			return models.MediaFile{}, noop, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.MediaFile{}, noop, fmt.Errorf("%w: %w", ErrUploadTooLarge, err)
		}
		return models.MediaFile{}, noop, fmt.Errorf("%w: %w", service.ErrInvalidMediaFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if !required && errors.Is(err, http.ErrMissingFile) {
			return models.MediaFile{}, noop, nil
		}
		return models.MediaFile{}, noop, fmt.Errorf("%w: %w", ErrMissingFile, err)
	}

	return mediaFromHeader(file, header), func() { _ = file.Close() }, nil
}

func mediaFromHeader(file multipart.File, header *multipart.FileHeader) models.MediaFile {
	return models.MediaFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}
}

// waitTask drains progress updates and blocks until the task finishes.
func waitTask(task *service.AnalysisTask) (models.AnalysisResult, *models.HistoryItem, error) {
	for range task.Progress() {
	}
	return task.Wait()
}
