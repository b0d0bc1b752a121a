package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ValidationError lists every problem found in a data document.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog: invalid data document: %s", strings.Join(e.Problems, "; "))
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func documentValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// whitespace-only translations render blank
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("categorykey", func(fl validator.FieldLevel) bool {
			return IsKey(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks the document invariants: every localized string carries both
// languages, ids are unique per collection, and category keys belong to the fixed set.
func Validate(doc Document) error {
	var problems []string

	if err := documentValidator().Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("catalog: validate: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	problems = append(problems, duplicates("products", len(doc.Products), func(i int) string { return doc.Products[i].ID })...)
	problems = append(problems, duplicates("services", len(doc.Services), func(i int) string { return doc.Services[i].ID })...)
	problems = append(problems, duplicates("faq", len(doc.FAQ), func(i int) string { return doc.FAQ[i].ID })...)
	problems = append(problems, duplicates("slides", len(doc.Slides), func(i int) string { return doc.Slides[i].ID })...)
	problems = append(problems, duplicates("partners", len(doc.Partners), func(i int) string { return doc.Partners[i].ID })...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i != -1 {
		ns = ns[i+1:]
	}
	switch fe.Tag() {
	case "required", "notblank":
		return ns + ": required"
	case "categorykey":
		return fmt.Sprintf("%s: unknown category key %q", ns, fe.Value())
	default:
		return fmt.Sprintf("%s: failed %s", ns, fe.Tag())
	}
}

func duplicates(collection string, n int, id func(int) string) []string {
	seen := make(map[string]int, n)
	var out []string
	for i := 0; i < n; i++ {
		key := id(i)
		if key == "" {
			continue
		}
		if first, ok := seen[key]; ok {
			out = append(out, fmt.Sprintf("%s[%d].id: duplicate id %q (first at %d)", collection, i, key, first))
			continue
		}
		seen[key] = i
	}
	return out
}
