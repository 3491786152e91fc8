package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	goahttp "goa.design/goa/v3/http"

	apperrors "makemystay/pkg/errors"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := goahttp.ResponseEncoder(r.Context(), w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		log.Printf("[ERROR] Failed to encode response for %s %s: %v", r.Method, r.URL.Path, err)
	}
}

// writeError renders err with the status its code maps to. Causes of
// server-side failures are logged and never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", r.Method, r.URL.Path, err)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, r, status, ErrorBody{
		Error:   apperrors.Slug(err),
		Message: apperrors.PublicMessage(err),
	})
}

// decodeBody reads a JSON body into v. Malformed JSON is a BadRequest,
// a well-formed value of the wrong type is a ValidationError.
func decodeBody(r *http.Request, v interface{}) error {
	err := goahttp.RequestDecoder(r).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperrors.Validation(fmt.Sprintf("%s must be of type %s", field, typeErr.Type))
	}
	return apperrors.BadRequest("Malformed JSON body")
}

// pathID parses a positive integer path parameter.
func pathID(vars map[string]string, name string) (uint, error) {
	raw := vars[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(fmt.Sprintf("%s must be a positive integer", name))
	}
	return uint(id), nil
}
