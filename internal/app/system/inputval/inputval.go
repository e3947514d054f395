// Package inputval validates form input against rules declared in struct
// tags.
//
// Supported rules, comma separated in a `validate` tag:
//
//	required   value must be non-empty after trimming
//	email      value, when present, must be a syntactically valid address
//
// The `label` tag names the field in messages; the Go field name is used
// when it is missing.
//
//	type memberInput struct {
//		Name  string `validate:"required" label:"Name"`
//		Email string `validate:"required,email" label:"Email"`
//	}
//	res := inputval.Validate(memberInput{...})
//	if res.HasErrors() { ... res.First() ... }
package inputval

import (
	"net/mail"
	"reflect"
	"strings"
	"unicode"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string // Go field name
	Rule    string
	Message string
}

// Result collects the errors of one Validate call in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "" when there are none.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// ByField returns the first message per Go field name.
func (r *Result) ByField() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, seen := out[e.Field]; !seen {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Validate checks every exported string field of v (a struct or pointer to
// struct) against its `validate` tag. Only the first failing rule per field
// is reported.
func Validate(v any) *Result {
	res := &Result{}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return res
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || !sf.IsExported() || sf.Type.Kind() != reflect.String {
			continue
		}
		label := sf.Tag.Get("label")
		if label == "" {
			label = sf.Name
		}
		if fe, failed := checkField(sf.Name, label, rv.Field(i).String(), tag); failed {
			res.Errors = append(res.Errors, fe)
		}
	}
	return res
}

func checkField(field, label, value, tag string) (FieldError, bool) {
	trimmed := strings.TrimSpace(value)
	for _, rule := range strings.Split(tag, ",") {
		name := strings.TrimSpace(rule)
		fail := func(msg string) (FieldError, bool) {
			return FieldError{Field: field, Rule: name, Message: msg}, true
		}
		switch name {
		case "required":
			if trimmed == "" {
				return fail(label + " is required.")
			}
		case "email":
			if trimmed != "" && !IsValidEmail(trimmed) {
				return fail("A valid email address is required.")
			}
		}
	}
	return FieldError{}, false
}

// IsValidEmail reports whether s is a bare addr-spec ("user@example.com").
// Display-name forms, whitespace, and empty or dotted-out labels are rejected.
// Single-label domains ("user@localhost") are accepted.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return cleanDots(s[:at]) && cleanDots(s[at+1:])
}

func cleanDots(part string) bool {
	return !strings.HasPrefix(part, ".") &&
		!strings.HasSuffix(part, ".") &&
		!strings.Contains(part, "..")
}
