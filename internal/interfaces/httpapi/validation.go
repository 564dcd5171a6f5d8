package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/frogcrew/internal/domain/position"
	"github.com/riskibarqy/frogcrew/internal/usecase"
)

var phonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)

// validationError carries per-field messages for the 400 envelope.
type validationError struct {
	Fields map[string]string
}

func (e *validationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *validationError) Unwrap() error { return usecase.ErrInvalidInput }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
		_, err := position.Parse(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fieldKey(fe)
		if _, seen := fields[key]; !seen {
			fields[key] = fieldMessage(fe)
		}
	}
	return &validationError{Fields: fields}
}

// fieldKey drops the top-level struct name: "createGameRequest.venue" -> "venue".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return fe.Field() + " must be a valid email address."
	case "position":
		return fe.Field() + " must be a known crew position."
	case "phone":
		return fe.Field() + " must be in the format 999-999-9999."
	case "datetime":
		return fe.Field() + " must match the format " + fe.Param() + "."
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param() + "."
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " long."
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " long."
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param() + "."
	default:
		return fe.Field() + " is invalid."
	}
}

// decodeJSON reads a single JSON object. Unknown fields are rejected; an
// empty body is an error unless allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &validationError{Fields: map[string]string{name: name + " must be a positive integer."}}
	}
	return id, nil
}
