package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/blogly/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
	pages  *renderer
}

func NewResponder(logger zerolog.Logger, pages *renderer) Responder {
	return Responder{logger: logger, pages: pages}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		r.WriteJSON(w, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Err(apiErr).Str("cause", apiErr.GetFullError()).Msg("request failed")
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	if apiErr.Cause != nil && apiErr.StatusCode < http.StatusInternalServerError {
		response.Cause = apiErr.GetFullError()
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.StatusCode)
	r.WriteJSON(w, response)
}

// RenderPage writes page with the given status.
func (r Responder) RenderPage(w http.ResponseWriter, status int, page string, data viewData) {
	body, err := r.pages.render(page, data)
	if err != nil {
		apiErr := errs.NewInternalErrorWithCause("error rendering page", err)
		r.logger.Error().Err(apiErr).Str("page", page).Str("cause", apiErr.GetFullError()).Msg("request failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// RenderNotFound writes the fixed not-found page.
func (r Responder) RenderNotFound(w http.ResponseWriter) {
	r.RenderPage(w, http.StatusNotFound, "404.html", nil)
}

// RenderError writes the not-found page for missing records and the server
// error page for everything else.
func (r Responder) RenderError(w http.ResponseWriter, err error) {
	if errs.IsNotFound(err) {
		r.RenderNotFound(w)
		return
	}

	status := errs.StatusCode(err)
	if status < http.StatusInternalServerError {
		r.RenderPage(w, status, "500.html", viewData{"Error": userMessage(err)})
		return
	}

	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Str("cause", apiErr.GetFullError()).Msg("request failed")
	} else {
		r.logger.Error().Err(err).Msg("unexpected error")
	}
	r.RenderPage(w, status, "500.html", nil)
}

// userMessage returns the part of err worth showing next to a form.
func userMessage(err error) string {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) && apiErr.Details != "" {
		return apiErr.Details
	}
	return err.Error()
}
