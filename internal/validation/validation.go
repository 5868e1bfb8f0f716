// Package validation wraps go-playground/validator with the recipe rule set and
// renders violations as "<field> : <description>" messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"recipes/internal/apperror"
)

// Rule aliases shared by request bodies and search criteria.
const (
	tagSize100   = "size100"
	tagSize2000  = "size2000"
	tagServings  = "servings"
	tagTrueFalse = "truefalse"
)

var servingsPattern = regexp.MustCompile(`^[1-9][0-9]?$|^100$`)

var descriptions = map[string]string{
	"required":   "must not be empty",
	tagSize100:   "size must be between 1 and 100",
	tagSize2000:  "size must be between 1 and 2000",
	tagServings:  "range must be between 1 and 100",
	tagTrueFalse: "must be true or false",
	"unique":     "must not contain duplicates",
}

// Validator validates structs tagged with the recipe rule set. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the recipe aliases and custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	v.RegisterAlias(tagSize100, "min=1,max=100")
	v.RegisterAlias(tagSize2000, "min=1,max=2000")
	v.RegisterAlias(tagTrueFalse, "oneof=true false")
	// Only fails on programmer error (duplicate registration of a builtin).
	if err := v.RegisterValidation(tagServings, validServings); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// Struct validates s and returns an apperror validation error listing every violation.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(apperror.CodeInternal, "validation could not run", err)
	}
	messages := make([]string, 0, len(verrs))
	seen := make(map[string]struct{}, len(verrs))
	for _, e := range verrs {
		msg := Message(fieldPath(e), e)
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		messages = append(messages, msg)
	}
	return apperror.Validation(messages...)
}

// Message formats a single violation.
func Message(field string, e validator.FieldError) string {
	return fmt.Sprintf("%s : %s", field, describe(e))
}

func describe(e validator.FieldError) string {
	if d, ok := descriptions[e.Tag()]; ok {
		return d
	}
	switch e.Tag() {
	case "max":
		return fmt.Sprintf("size must be at most %s", e.Param())
	case "min":
		return fmt.Sprintf("size must be at least %s", e.Param())
	}
	return fmt.Sprintf("failed on the '%s' rule", e.Tag())
}

// fieldPath strips the root struct name from the namespace and drops the index of
// violations reported on a collection element itself.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if strings.HasSuffix(ns, "]") {
		if i := strings.LastIndexByte(ns, '['); i >= 0 {
			ns = ns[:i]
		}
	}
	return ns
}

func fieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func validServings(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := f.Int()
		return n >= 1 && n <= 100
	case reflect.String:
		return servingsPattern.MatchString(f.String())
	}
	return false
}
