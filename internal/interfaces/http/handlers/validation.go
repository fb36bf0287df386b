package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
)

// RegisterValidators adds the team binding rules to gin's validator engine
// and makes it report JSON field names.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("teamkind", func(fl validator.FieldLevel) bool {
		_, ok := entities.ParseTeamKind(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	return v.RegisterValidation("teamstatus", func(fl validator.FieldLevel) bool {
		_, ok := entities.ParseTeamStatus(fl.Field().String())
		return ok
	})
}

// bindingError turns a gin binding failure into a validation error whose
// message names the offending fields.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		problems := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			problems = append(problems, fieldMessage(fe))
		}
		return domainerrors.Validation(strings.Join(problems, "; "))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return domainerrors.Validation(fmt.Sprintf("%s has an invalid type", typeErr.Field))
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return domainerrors.Validation("malformed JSON body")
	}
	return domainerrors.Validation(err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "teamkind":
		return field + " must be Fundacion or Temporal"
	case "teamstatus":
		return field + " must be Active or Inactive"
	default:
		return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
	}
}
