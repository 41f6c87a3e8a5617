package types

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator for input structs. init registers the
// closed vocabularies and the date rules.
var validate *validator.Validate

// nowFunc is replaced in tests that need a fixed current year.
var nowFunc = time.Now

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Dates and timestamps validate as their stored text form.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		return v.Interface().(Date).String()
	}, Date{})
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		return v.Interface().(Timestamp).String()
	}, Timestamp{})

	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("crimetype", stringIn(ValidCrimeType))
	_ = validate.RegisterValidation("casestatus", stringIn(ValidCaseStatus))
	_ = validate.RegisterValidation("conviction", stringIn(ValidConvictionStatus))
	_ = validate.RegisterValidation("connectiontype", stringIn(ValidConnectionType))
	_ = validate.RegisterValidation("casetag", stringIn(ValidCaseTag))
	_ = validate.RegisterValidation("casedate", func(fl validator.FieldLevel) bool {
		d, err := ParseDate(fl.Field().String())
		return err == nil && d.CheckRange(nowFunc()) == nil
	})
	_ = validate.RegisterValidation("casetime", func(fl validator.FieldLevel) bool {
		ts, err := ParseTimestamp(fl.Field().String())
		return err == nil && ts.CheckRange(nowFunc()) == nil
	})
}

func stringIn(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	}
}

// ruleMessages turns validator tags into user-facing messages.
var ruleMessages = map[string]string{
	"required":       "is required",
	"notblank":       "must not be blank",
	"crimetype":      "is not a known crime type",
	"casestatus":     "is not a known case status",
	"conviction":     "is not a known conviction status",
	"connectiontype": "is not a known connection type",
	"casetag":        "is not a known case tag",
	"casedate":       "must be a real date between 1800 and the current year",
	"casetime":       "must be a timestamp between 1800 and the current year",
	"min":            "needs at least %s entries",
	"gt":             "must be greater than %s",
	"latitude":       "must be a latitude between -90 and 90",
	"longitude":      "must be a longitude between -180 and 180",
}

// validateStruct runs the shared validator over s and converts failures to
// joined ValidationErrors.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fieldError(fe))
	}
	return errors.Join(errs...)
}

// validateVar checks a single value against a tag, naming the failure after
// field.
func validateVar(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: field, Message: message(fe.Tag(), fe.Param(), fe.Value())}
}

func fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	return &ValidationError{Field: field, Message: message(fe.Tag(), fe.Param(), fe.Value())}
}

func message(tag, param string, value any) string {
	msg, ok := ruleMessages[tag]
	if !ok {
		return "failed rule " + tag
	}
	if strings.Contains(msg, "%s") {
		msg = strings.Replace(msg, "%s", param, 1)
	}
	if s, ok := value.(string); ok && s != "" && tag != "required" && tag != "notblank" {
		msg = "\"" + s + "\" " + msg
	}
	return msg
}
