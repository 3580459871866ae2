package http

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"lcflow/internal/domain/lc"
	"lcflow/internal/domain/notification"
	"lcflow/internal/domain/session"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var reUserID = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,64}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names so details match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("userid", func(fl validator.FieldLevel) bool {
		return reUserID.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
		return lc.DocumentType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("mimetype", func(fl validator.FieldLevel) bool {
		return lc.AllowedMimeTypes[fl.Field().String()]
	})
	_ = v.RegisterValidation("phase", func(fl validator.FieldLevel) bool {
		_, err := lc.ParsePhase(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return session.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("notiftype", func(fl validator.FieldLevel) bool {
		return notification.Type(fl.Field().String()).Valid()
	})
	// positive amount, max 2 decimal places, thousands separators allowed
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		return validAmount(fl.Field().String())
	})

	v.RegisterStructValidation(formDataRules, lc.FormData{})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// The form itself is opaque to the lifecycle; only the fields the dashboard
// computes on, or that would be unusable when malformed, are checked.
func formDataRules(sl validator.StructLevel) {
	fd := sl.Current().Interface().(lc.FormData)
	if fd.LCAmount != "" && !validAmount(fd.LCAmount) {
		sl.ReportError(fd.LCAmount, "lcAmount", "LCAmount", "amount", "")
	}
	if fd.ContactEmail != "" && sl.Validator().Var(fd.ContactEmail, "email") != nil {
		sl.ReportError(fd.ContactEmail, "contactEmail", "ContactEmail", "email", "")
	}
	if fd.Currency != "" && sl.Validator().Var(fd.Currency, "iso4217") != nil {
		sl.ReportError(fd.Currency, "currency", "Currency", "iso4217", "")
	}
}

func validAmount(s string) bool {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return false
	}
	return d.IsPositive() && d.Equal(d.Round(2))
}

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "userid":
			out = append(out, FieldError{Field: field, Message: "must be 1-64 chars of letters, digits, '.', '_', '@' or '-'"})
		case "doctype":
			out = append(out, FieldError{Field: field, Message: "must be a known document type"})
		case "mimetype":
			out = append(out, FieldError{Field: field, Message: "must be pdf, jpeg, png, doc or docx"})
		case "phase":
			out = append(out, FieldError{Field: field, Message: "must be INITIATED, IN_TRANSIT or COMPLETED"})
		case "role":
			out = append(out, FieldError{Field: field, Message: "must be IMPORTER, EXPORTER, ADMIN or SHIPMENT_PROVIDER"})
		case "notiftype":
			out = append(out, FieldError{Field: field, Message: "must be a known notification type"})
		case "amount":
			out = append(out, FieldError{Field: field, Message: "must be a positive amount with at most 2 decimal places"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email"})
		case "iso4217":
			out = append(out, FieldError{Field: field, Message: "must be an ISO 4217 currency code"})
		case "numeric":
			out = append(out, FieldError{Field: field, Message: "must be numeric"})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must have at least " + e.Param() + " item(s)"})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " long"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
