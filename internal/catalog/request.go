package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// ValidationError reports a write request that cannot reach the store.
// Missing lists absent fields by their JSON names, in declaration order.
// A body that does not decode at all leaves Missing empty and sets Cause.
type ValidationError struct {
	Missing []string
	Cause   error
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	}
	return "malformed request body"
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// writeRequest uses pointers so an absent key is distinguishable from a zero value.
type writeRequest struct {
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Price       *int64  `json:"price" validate:"required"`
	Quantity    *int64  `json:"quantity" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseWriteRequest decodes the body of a POST or PUT and checks that every
// product field is present. It never touches the store.
func parseWriteRequest(w http.ResponseWriter, r *http.Request) (Fields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	var raw json.RawMessage
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil {
		return Fields{}, &ValidationError{Cause: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Fields{}, &ValidationError{Cause: errors.New("extra data after json object")}
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Fields{}, &ValidationError{Cause: errors.New("body is null, want a json object")}
	}

	var req writeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return Fields{}, &ValidationError{Cause: err}
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Fields{}, &ValidationError{Cause: err}
		}

		missing := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			missing = append(missing, fe.Field())
		}
		return Fields{}, &ValidationError{Missing: missing, Cause: err}
	}

	return Fields{
		Name:        *req.Name,
		Description: *req.Description,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
	}, nil
}
