package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/training-registration-api/internal/dto"
	"github.com/noah-isme/training-registration-api/internal/models"
	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
)

// Field messages shown next to the sign-up form inputs.
const (
	MsgNameTooShort         = "Nome deve ter pelo menos 3 caracteres"
	MsgNameTooLong          = "Nome deve ter no máximo 100 caracteres"
	MsgInvalidEmail         = "E-mail inválido"
	MsgSelectDepartment     = "Selecione um departamento"
	MsgSelectFamiliarity    = "Selecione um nível"
	MsgDescribeAccessNeeds  = "Descreva suas necessidades de acessibilidade"
	MsgObservationsTooLong  = "Observações devem ter no máximo 500 caracteres"
	MsgSelectParticipation  = "Selecione a data de participação"
	MsgParticipationInPast  = "A data de participação não pode estar no passado"
	msgInvalidRegistration  = "invalid registration payload"
	fallbackTagMessageToken = "*"
)

var registrationMessages = map[string]map[string]string{
	"fullName": {
		"required": MsgNameTooShort,
		"min":      MsgNameTooShort,
		"max":      MsgNameTooLong,
	},
	"email":                {fallbackTagMessageToken: MsgInvalidEmail},
	"department":           {fallbackTagMessageToken: MsgSelectDepartment},
	"familiarityLevel":     {fallbackTagMessageToken: MsgSelectFamiliarity},
	"accessibilityDetails": {fallbackTagMessageToken: MsgDescribeAccessNeeds},
	"observations":         {fallbackTagMessageToken: MsgObservationsTooLong},
	"participationDate": {
		"notpast":               MsgParticipationInPast,
		fallbackTagMessageToken: MsgSelectParticipation,
	},
}

// RegistrationValidator applies the sign-up form rules and maps failures to field messages.
type RegistrationValidator struct {
	validate *validator.Validate
	location *time.Location
	now      func() time.Time
}

// NewRegistrationValidator registers the form's custom rules on validate. "Today" is evaluated in loc.
func NewRegistrationValidator(validate *validator.Validate, loc *time.Location, now func() time.Time) *RegistrationValidator {
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	v := &RegistrationValidator{validate: validate, location: loc, now: now}

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	validate.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return models.Department(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("familiarity", func(fl validator.FieldLevel) bool {
		return models.FamiliarityLevel(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		date, err := models.ParseDate(fl.Field().String())
		if err != nil {
			return false
		}
		return !date.Before(v.Today())
	})
	return v
}

// Today returns the current calendar date in the configured time zone.
func (v *RegistrationValidator) Today() models.Date {
	return models.DateOf(v.now(), v.location)
}

// Check validates a normalised request and returns the failing fields with their messages.
func (v *RegistrationValidator) Check(req dto.CreateRegistrationRequest) map[string]string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return fields
}

// Validate normalises req in place and returns a VALIDATION_ERROR carrying field messages.
func (v *RegistrationValidator) Validate(req *dto.CreateRegistrationRequest) error {
	req.Normalize()
	if fields := v.Check(*req); len(fields) > 0 {
		return appErrors.Validation(msgInvalidRegistration, fields)
	}
	return nil
}

func messageFor(field, tag string) string {
	messages, ok := registrationMessages[field]
	if !ok {
		return "valor inválido"
	}
	if msg, ok := messages[tag]; ok {
		return msg
	}
	if msg, ok := messages[fallbackTagMessageToken]; ok {
		return msg
	}
	return "valor inválido"
}
