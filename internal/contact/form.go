package contact

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Submission is a contact form post.
type Submission struct {
	Name    string `form:"name" validate:"required,min=2,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Phone   string `form:"phone" validate:"omitempty,phone"`
	Subject string `form:"subject" validate:"omitempty,max=150"`
	Message string `form:"message" validate:"required,min=10,max=2000"`
	// Website is a honeypot rendered off-screen; people leave it empty.
	Website string `form:"website"`
}

// Field describes one visible form control.
type Field struct {
	Name      string
	Type      string // input type; empty for the textarea
	Required  bool
	LTR       bool // emails and phone numbers read left to right in Arabic too
	Multiline bool
}

// Fields lists the visible form fields in display order.
var Fields = []Field{
	{Name: "name", Type: "text", Required: true},
	{Name: "email", Type: "email", Required: true, LTR: true},
	{Name: "phone", Type: "tel", LTR: true},
	{Name: "subject", Type: "text"},
	{Name: "message", Required: true, Multiline: true},
}

// Value returns the submitted value of a form field by name.
func (s Submission) Value(field string) string {
	switch field {
	case "name":
		return s.Name
	case "email":
		return s.Email
	case "phone":
		return s.Phone
	case "subject":
		return s.Subject
	case "message":
		return s.Message
	case "website":
		return s.Website
	}
	return ""
}

// FromForm reads a submission from posted form values, trimming whitespace.
func FromForm(v url.Values) Submission {
	get := func(k string) string { return strings.TrimSpace(v.Get(k)) }
	return Submission{
		Name:    get("name"),
		Email:   get("email"),
		Phone:   get("phone"),
		Subject: get("subject"),
		Message: get("message"),
		Website: get("website"),
	}
}

// IsSpam reports whether the honeypot field was filled in.
func (s Submission) IsSpam() bool {
	return s.Website != ""
}

// FieldErrors maps a form field to the dictionary key of its message.
type FieldErrors map[string]string

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "contact: invalid fields: " + strings.Join(keys, ", ")
}

// Translator resolves dictionary keys for a language.
type Translator interface {
	T(lang, key string) string
}

// Localize resolves every field error into the given language.
func (fe FieldErrors) Localize(tr Translator, lang string) map[string]string {
	out := make(map[string]string, len(fe))
	for field, key := range fe {
		out[field] = tr.T(lang, key)
	}
	return out
}

var phonePattern = regexp.MustCompile(`^[0-9 +\-]{6,20}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return fld.Tag.Get("form")
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks the submission and returns FieldErrors (nil when valid).
// Each field reports its first failing rule.
func (s Submission) Validate() FieldErrors {
	err := formValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": "contact.error.generic"}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageKey(fe.Field(), fe.Tag())
	}
	return out
}

func messageKey(field, tag string) string {
	switch tag {
	case "email", "phone":
		tag = "invalid"
	}
	return "contact.error." + field + "." + tag
}
