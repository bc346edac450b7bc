package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/localnerve/novelsdb/internal/types"
)

// Credentials is the register and login payload
type Credentials struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Password string `json:"password" validate:"required,password"`
}

// loginCredentials only requires presence; a bad shape is just a failed login
type loginCredentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NovelInput is the create and update payload for a novel
type NovelInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
	Genre       *string `json:"genre" validate:"omitnil,min=1,max=50"`
	Status      string  `json:"status" validate:"omitempty,oneof=Ongoing Completed Hiatus"`
	Author      string  `json:"author" validate:"required,min=3,max=50"`
}

// ChapterInput is the create and update payload for a chapter
type ChapterInput struct {
	NovelID types.FlexUint64 `json:"novel_id" validate:"required"`
	Number  types.FlexUint64 `json:"number" validate:"required,min=1"`
	Title   string           `json:"title" validate:"required,min=3,max=100"`
	Content string           `json:"content" validate:"required,min=10"`
}

var passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return passwordPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register password validation: %v", err))
	}

	return v
}

// DecodeStrict decodes a JSON object into dst, rejecting unknown fields and
// trailing data. Failures are returned as validation errors.
func DecodeStrict(body []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return types.NewValidationError("Request body must contain a single JSON object")
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return types.NewValidationError("Request body is required")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return types.NewValidationError(fmt.Sprintf("%q must be a %s", typeErr.Field, typeErr.Type.Kind()))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return types.NewValidationError(fmt.Sprintf("%s is not allowed", field))
	case strings.Contains(err.Error(), "FlexUint64"):
		return types.NewValidationError("Numeric fields must be non-negative integers")
	}
	return types.NewValidationError("Malformed JSON body")
}

// Validate checks a payload against its struct tags and reports the first
// violation as a validation error.
func Validate(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return types.NewValidationError(fieldMessage(fieldErrs[0]))
	}
	return types.NewInternalError(err)
}

func decodeAndValidate(body []byte, dst interface{}) error {
	if err := DecodeStrict(body, dst); err != nil {
		return err
	}
	return Validate(dst)
}

// fieldMessage renders a field error the way clients of the original service expect
func fieldMessage(fe validator.FieldError) string {
	field := fmt.Sprintf("%q", fe.Field())
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must only contain alpha-numeric characters", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "password":
		return fmt.Sprintf("%s fails to match the required pattern: %s", field, passwordPattern.String())
	}
	return fmt.Sprintf("%s is invalid", field)
}
