package contact

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		Name:    "Layla Hassan",
		Email:   "layla@example.com",
		Phone:   "+971 50-123-4567",
		Subject: "Rollator sizes",
		Message: "Do you stock the compact rollator in blue?",
	}
}

func TestValidateAcceptsValid(t *testing.T) {
	assert.Nil(t, validSubmission().Validate())

	s := validSubmission()
	s.Phone = ""
	s.Subject = ""
	assert.Nil(t, s.Validate())
}

func TestValidateReportsEachField(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Submission)
		field  string
		key    string
	}{
		{"missing name", func(s *Submission) { s.Name = "" }, "name", "contact.error.name.required"},
		{"short name", func(s *Submission) { s.Name = "L" }, "name", "contact.error.name.min"},
		{"long name", func(s *Submission) { s.Name = strings.Repeat("a", 101) }, "name", "contact.error.name.max"},
		{"missing email", func(s *Submission) { s.Email = "" }, "email", "contact.error.email.required"},
		{"bad email", func(s *Submission) { s.Email = "layla@" }, "email", "contact.error.email.invalid"},
		{"bad phone", func(s *Submission) { s.Phone = "call me" }, "phone", "contact.error.phone.invalid"},
		{"short phone", func(s *Submission) { s.Phone = "123" }, "phone", "contact.error.phone.invalid"},
		{"long subject", func(s *Submission) { s.Subject = strings.Repeat("s", 151) }, "subject", "contact.error.subject.max"},
		{"missing message", func(s *Submission) { s.Message = "" }, "message", "contact.error.message.required"},
		{"short message", func(s *Submission) { s.Message = "hi" }, "message", "contact.error.message.min"},
		{"long message", func(s *Submission) { s.Message = strings.Repeat("m", 2001) }, "message", "contact.error.message.max"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSubmission()
			tc.mutate(&s)
			errs := s.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tc.key, errs[tc.field])
		})
	}
}

func TestArabicNameLengthCountsRunes(t *testing.T) {
	s := validSubmission()
	s.Name = "لي"
	assert.Nil(t, s.Validate())
}

func TestFromFormTrimsAndDetectsHoneypot(t *testing.T) {
	s := FromForm(url.Values{
		"name":    {"  Omar  "},
		"email":   {"omar@example.com"},
		"message": {"I need a hospital bed quote."},
		"website": {"http://spam.example"},
	})
	assert.Equal(t, "Omar", s.Name)
	assert.True(t, s.IsSpam())
}

type dict map[string]string

func (d dict) T(lang, key string) string { return d[lang+":"+key] }

func TestLocalize(t *testing.T) {
	errs := FieldErrors{"email": "contact.error.email.required"}
	got := errs.Localize(dict{"ar:contact.error.email.required": "البريد الإلكتروني مطلوب"}, "ar")
	assert.Equal(t, map[string]string{"email": "البريد الإلكتروني مطلوب"}, got)
	assert.EqualError(t, FieldErrors{"name": "x", "email": "y"}, "contact: invalid fields: email, name")
}

func TestFieldsMatchValidationRules(t *testing.T) {
	errs := Submission{}.Validate()
	sub := validSubmission()
	for _, f := range Fields {
		_, reported := errs[f.Name]
		assert.Equal(t, f.Required, reported, f.Name)
		assert.NotEmpty(t, sub.Value(f.Name), f.Name)
		assert.Equal(t, f.Name == "message", f.Multiline, f.Name)
	}
	assert.Len(t, errs, 3)
	assert.Empty(t, sub.Value("unknown"))
}
