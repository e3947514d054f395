// internal/app/roster/form.go
package roster

import (
	"sort"
	"strings"

	"github.com/dalemusser/peopledir/internal/app/system/inputval"
	"github.com/dalemusser/peopledir/internal/app/system/normalize"
	"github.com/dalemusser/peopledir/internal/domain/models"
)

// FormInput is the fixed field set of the create/edit form, as typed.
type FormInput struct {
	Name        string `validate:"required" label:"Name"`
	Status      string `validate:"required" label:"Status"`
	Role        string `validate:"required" label:"Role"`
	Email       string `validate:"required,email" label:"Email"`
	Teams       string `validate:"required" label:"Teams"`
	WorkEmail   string
	DOB         string
	Gender      string
	Nationality string
	ContactNo   string
}

// InputFrom prefills the form from an existing record.
func InputFrom(m models.Member) FormInput {
	return FormInput{
		Name:        m.Name,
		Status:      m.Status,
		Role:        m.Role,
		Email:       m.Email,
		Teams:       m.Teams,
		WorkEmail:   m.WorkEmail,
		DOB:         m.DOB,
		Gender:      m.Gender,
		Nationality: m.Nationality,
		ContactNo:   m.ContactNo,
	}
}

// ValidationErrors maps a form field to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, v[f])
	}
	return "invalid member: " + strings.Join(parts, " ")
}

// Clean normalizes every field of the input.
func (in FormInput) Clean() FormInput {
	return FormInput{
		Name:        normalize.Name(in.Name),
		Status:      normalize.Status(in.Status),
		Role:        normalize.Text(in.Role),
		Email:       normalize.Email(in.Email),
		Teams:       normalize.Text(in.Teams),
		WorkEmail:   normalize.Email(in.WorkEmail),
		DOB:         normalize.Text(in.DOB),
		Gender:      normalize.Text(in.Gender),
		Nationality: normalize.Text(in.Nationality),
		ContactNo:   normalize.Text(in.ContactNo),
	}
}

// Validate cleans the input and checks it. Name, status, role and teams
// must be non-empty; email must be a valid address. Everything else is
// optional and unconstrained. The returned member has no id and no photo.
func Validate(in FormInput) (models.Member, ValidationErrors) {
	in = in.Clean()
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Member{}, ValidationErrors(res.ByField())
	}
	return models.Member{
		Name:        in.Name,
		Status:      in.Status,
		Role:        in.Role,
		Email:       in.Email,
		Teams:       in.Teams,
		WorkEmail:   in.WorkEmail,
		DOB:         in.DOB,
		Gender:      in.Gender,
		Nationality: in.Nationality,
		ContactNo:   in.ContactNo,
	}, nil
}

// MergePhoto picks the photo URL to submit: a freshly uploaded one, else the
// photo already stored on the record being edited, else none.
func MergePhoto(pending, existing string) string {
	if pending != "" {
		return pending
	}
	return existing
}
