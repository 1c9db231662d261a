package model

import (
	"strings"
	"time"
)

// DateLayout is how dates of birth are written.
const DateLayout = "2006-01-02"

type Member struct {
	ID              string    `json:"id"`
	FamilyID        string    `json:"family_id"`
	Name            string    `json:"name"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	Relation        string    `json:"relation"`
	Phone           string    `json:"phone_number"`
	Occupation      string    `json:"occupation,omitempty"`
	IsStudent       bool      `json:"is_student"`
	IsSeniorCitizen bool      `json:"is_senior_citizen"`
	IsDisabled      bool      `json:"is_disabled"`
	IsPensioner     bool      `json:"is_pensioner"`
	PensionType     string    `json:"pension_type,omitempty"`
	MedicalNeeds    string    `json:"medical_needs,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MemberInput is the member form as the UI collects it.
type MemberInput struct {
	FamilyID        string `json:"family_id"`
	Name            string `json:"name"`
	DateOfBirth     string `json:"date_of_birth"`
	Relation        string `json:"relation"`
	Phone           string `json:"phone_number"`
	Occupation      string `json:"occupation"`
	IsStudent       bool   `json:"is_student"`
	IsSeniorCitizen bool   `json:"is_senior_citizen"`
	IsDisabled      bool   `json:"is_disabled"`
	IsPensioner     bool   `json:"is_pensioner"`
	PensionType     string `json:"pension_type"`
	MedicalNeeds    string `json:"medical_needs"`
}

// Normalize trims text fields. A pension type without the pensioner flag is
// dropped.
func (in MemberInput) Normalize() MemberInput {
	in.FamilyID = strings.TrimSpace(in.FamilyID)
	in.Name = strings.TrimSpace(in.Name)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.Relation = strings.TrimSpace(in.Relation)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Occupation = strings.TrimSpace(in.Occupation)
	in.PensionType = strings.TrimSpace(in.PensionType)
	in.MedicalNeeds = strings.TrimSpace(in.MedicalNeeds)
	if !in.IsPensioner {
		in.PensionType = ""
	}
	return in
}

// Validate checks required fields and that the date of birth is a real date
// no later than today.
func (in MemberInput) Validate(today time.Time) error {
	in = in.Normalize()
	if in.FamilyID == "" {
		return required("familyId")
	}
	if in.Name == "" {
		return required("name")
	}
	if in.DateOfBirth == "" {
		return required("dateOfBirth")
	}
	dob, err := time.Parse(DateLayout, in.DateOfBirth)
	if err != nil {
		return ValidationError{Field: "dateOfBirth", Message: "date of birth must be YYYY-MM-DD"}
	}
	if dob.After(today) {
		return ValidationError{Field: "dateOfBirth", Message: "date of birth is in the future"}
	}
	if in.Relation == "" {
		return required("relation")
	}
	if in.Phone == "" {
		return required("phoneNumber")
	}
	return nil
}

// Matches reports whether q is a case-insensitive substring of the name or a
// substring of the phone number. An empty query matches everything.
func (m Member) Matches(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), strings.ToLower(q)) ||
		strings.Contains(m.Phone, q)
}
