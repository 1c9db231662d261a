package model

import (
	"fmt"
	"strings"
	"time"
)

// Collection names in the document store.
const (
	CollectionFamilies = "families"
	CollectionMembers  = "members"
	CollectionRequests = "requests"
)

// MaxZone is the highest zone number in the ward.
const MaxZone = 5

type Ownership string

const (
	OwnershipOwned  Ownership = "OWNED"
	OwnershipRental Ownership = "RENTAL"
)

// ParseOwnership accepts only the two known ownership values.
func ParseOwnership(s string) (Ownership, error) {
	switch o := Ownership(strings.ToUpper(strings.TrimSpace(s))); o {
	case OwnershipOwned, OwnershipRental:
		return o, nil
	}
	return "", ValidationError{Field: "houseOwnership", Message: fmt.Sprintf("unknown ownership %q", s)}
}

type Family struct {
	ID          string    `json:"id"`
	Name        string    `json:"family_name"`
	Zone        int       `json:"zone"`
	HouseNumber int       `json:"house_number"`
	Ownership   Ownership `json:"house_ownership"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FamilyInput is the family form as the UI collects it.
type FamilyInput struct {
	Name        string `json:"family_name"`
	Zone        int    `json:"zone"`
	HouseNumber int    `json:"house_number"`
	Ownership   string `json:"house_ownership"`
	Address     string `json:"address"`
}

// Normalize trims text fields and upper-cases the ownership value.
func (in FamilyInput) Normalize() FamilyInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Ownership = strings.ToUpper(strings.TrimSpace(in.Ownership))
	return in
}

func (in FamilyInput) Validate() error {
	in = in.Normalize()
	if in.Name == "" {
		return required("familyName")
	}
	if in.Zone < 1 || in.Zone > MaxZone {
		return ValidationError{Field: "zone", Message: fmt.Sprintf("zone must be between 1 and %d", MaxZone)}
	}
	if in.HouseNumber < 1 {
		return ValidationError{Field: "houseNumber", Message: "house number must be positive"}
	}
	if _, err := ParseOwnership(in.Ownership); err != nil {
		return err
	}
	if in.Address == "" {
		return required("address")
	}
	return nil
}
