package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Source tells where a raw request came from. It only changes the error
// message reported for malformed JSON.
type Source int

const (
	SourceArg Source = iota
	SourceStdin
)

// Input errors reported before any file is touched.
var (
	ErrInvalidJSONParam = errors.New("Invalid JSON parameter") //nolint:staticcheck // user-facing message
	ErrInvalidJSONInput = errors.New("Invalid JSON input")     //nolint:staticcheck // user-facing message
)

// Request is a single write invocation.
type Request struct {
	Filepath string `json:"filepath" validate:"required"`
	Cover    string `json:"cover,omitempty"`
	Lyrics   string `json:"lyrics,omitempty"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// ParseRequest decodes and validates a JSON request.
func ParseRequest(raw []byte, src Source) (*Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		if src == SourceStdin {
			return nil, ErrInvalidJSONInput
		}
		return nil, ErrInvalidJSONParam
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validate checks required fields.
func (r *Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	e := validationErrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s is required", e.Field())
	default:
		return fmt.Errorf("%s is invalid", e.Field())
	}
}
