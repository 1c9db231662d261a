package repository

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/dukerupert/wardbook/internal/docstore"
	"github.com/dukerupert/wardbook/internal/model"
)

func str(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolean(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func integer(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func timestamp(fields map[string]any, key string) time.Time {
	s := str(fields, key)
	if s == "" {
		return time.Time{}
	}
	t, err := docstore.ParseTime(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func familyFromDoc(doc docstore.Document) model.Family {
	f := doc.Fields
	return model.Family{
		ID:          doc.ID,
		Name:        str(f, "familyName"),
		Zone:        integer(f, "zone"),
		HouseNumber: integer(f, "houseNumber"),
		Ownership:   model.Ownership(str(f, "houseOwnership")),
		Address:     str(f, "address"),
		CreatedAt:   timestamp(f, "createdAt"),
		UpdatedAt:   timestamp(f, "updatedAt"),
	}
}

func familyFields(in model.FamilyInput) map[string]any {
	return map[string]any{
		"familyName":     in.Name,
		"zone":           in.Zone,
		"houseNumber":    in.HouseNumber,
		"houseOwnership": in.Ownership,
		"address":        in.Address,
	}
}

func memberFromDoc(doc docstore.Document) model.Member {
	f := doc.Fields
	m := model.Member{
		ID:              doc.ID,
		FamilyID:        str(f, "familyId"),
		Name:            str(f, "name"),
		Relation:        str(f, "relation"),
		Phone:           str(f, "phoneNumber"),
		Occupation:      str(f, "occupation"),
		IsStudent:       boolean(f, "isStudent"),
		IsSeniorCitizen: boolean(f, "isSeniorCitizen"),
		IsDisabled:      boolean(f, "isDisabled"),
		IsPensioner:     boolean(f, "isPensioner"),
		PensionType:     str(f, "pensionType"),
		MedicalNeeds:    str(f, "medicalNeeds"),
		CreatedAt:       timestamp(f, "createdAt"),
		UpdatedAt:       timestamp(f, "updatedAt"),
	}
	if dob, err := time.Parse(model.DateLayout, str(f, "dateOfBirth")); err == nil {
		m.DateOfBirth = dob
	}
	return m
}

func memberFields(in model.MemberInput) map[string]any {
	return map[string]any{
		"familyId":        in.FamilyID,
		"name":            in.Name,
		"dateOfBirth":     in.DateOfBirth,
		"relation":        in.Relation,
		"phoneNumber":     in.Phone,
		"occupation":      in.Occupation,
		"isStudent":       in.IsStudent,
		"isSeniorCitizen": in.IsSeniorCitizen,
		"isDisabled":      in.IsDisabled,
		"isPensioner":     in.IsPensioner,
		"pensionType":     in.PensionType,
		"medicalNeeds":    in.MedicalNeeds,
	}
}

func requestFromDoc(doc docstore.Document) model.Request {
	f := doc.Fields
	r := model.Request{
		ID:          doc.ID,
		MemberID:    str(f, "memberId"),
		MemberName:  str(f, "memberName"),
		MemberPhone: str(f, "memberPhone"),
		Description: str(f, "requestDescription"),
		Status:      model.RequestStatus(str(f, "status")),
		Notes:       str(f, "notes"),
		RequestDate: timestamp(f, "requestDate"),
	}
	if t := timestamp(f, "completedDate"); !t.IsZero() {
		r.CompletedDate = &t
	}
	return r
}
