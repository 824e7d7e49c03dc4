// Package validation wires request binding rules into gin's validator and
// turns binding failures into API errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/andesind/catalog-api/pkg/apperror"
	"github.com/andesind/catalog-api/pkg/ruc"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// Register adds the custom rules to gin's validator engine and reports
// fields by their JSON names. Safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("validation: gin validator engine is not go-playground/validator")
			return
		}
		err = Configure(v)
	})
	return err
}

// Configure registers the custom rules on v
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	return v.RegisterValidation("ruc", func(fl validator.FieldLevel) bool {
		return ruc.IsValid(fl.Field().String())
	})
}

func jsonName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// BindError converts an error returned by gin's ShouldBind* into an
// AppError: rule violations are a 422 with one entry per field, anything
// else means the body could not be read and is a 400.
func BindError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrors := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fieldPath(fe),
				Message: message(fe),
			})
		}
		return apperror.NewValidationError(fieldErrors)
	}
	return apperror.NewBadRequestError("Invalid request body: " + err.Error())
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "ruc":
		return "must be a valid 11-digit RUC"
	case "uuid", "uuid4":
		return "must be a valid ID"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at least %s", countOf(fe))
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at most %s", countOf(fe))
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "is invalid"
}

func countOf(fe validator.FieldError) string {
	unit := "items"
	if fe.Kind() == reflect.String {
		unit = "characters"
	}
	return fe.Param() + " " + unit
}
