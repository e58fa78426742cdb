package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns validator for request bodies
func NewValidator() *validator.Validate {
	return validator.New()
}

// decodeAndValidate decodes JSON body into out and validates it.
// On failure it writes 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, out any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}

	if err := v.Struct(out); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return false
	}

	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "bad request"
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
