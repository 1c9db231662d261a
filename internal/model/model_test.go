package model

import (
	"errors"
	"testing"
	"time"
)

func TestRequestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to RequestStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusRejected, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusRejected, true},
		{StatusInProgress, StatusPending, false},
		{StatusPending, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusRejected, StatusCompleted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseRequestStatus(t *testing.T) {
	st, err := ParseRequestStatus(" in_progress ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if st != StatusInProgress {
		t.Errorf("status = %q, want %q", st, StatusInProgress)
	}

	_, err = ParseRequestStatus("DONE")
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Field != "status" {
		t.Errorf("field = %q, want status", ve.Field)
	}
}

func TestParseOwnership(t *testing.T) {
	if o, err := ParseOwnership("rental"); err != nil || o != OwnershipRental {
		t.Errorf("ParseOwnership(rental) = %q, %v", o, err)
	}
	if _, err := ParseOwnership("LEASED"); err == nil {
		t.Error("expected error for unknown ownership")
	}
}

func TestFamilyInputValidate(t *testing.T) {
	valid := FamilyInput{Name: "Nair", Zone: 3, HouseNumber: 12, Ownership: "owned", Address: "Temple Road"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input: %v", err)
	}

	tests := []struct {
		name  string
		edit  func(*FamilyInput)
		field string
	}{
		{"missing name", func(in *FamilyInput) { in.Name = "  " }, "familyName"},
		{"zone too low", func(in *FamilyInput) { in.Zone = 0 }, "zone"},
		{"zone too high", func(in *FamilyInput) { in.Zone = MaxZone + 1 }, "zone"},
		{"bad house number", func(in *FamilyInput) { in.HouseNumber = 0 }, "houseNumber"},
		{"bad ownership", func(in *FamilyInput) { in.Ownership = "shared" }, "houseOwnership"},
		{"missing address", func(in *FamilyInput) { in.Address = "" }, "address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			var ve ValidationError
			if err := in.Validate(); !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("err = %v, want ValidationError on %s", err, tt.field)
			}
		})
	}
}

func TestMemberInputValidate(t *testing.T) {
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	valid := MemberInput{FamilyID: "f1", Name: "Asha", DateOfBirth: "1990-02-14", Relation: "Self", Phone: "9876543210"}
	if err := valid.Validate(today); err != nil {
		t.Fatalf("valid input: %v", err)
	}

	future := valid
	future.DateOfBirth = "2024-06-02"
	if err := future.Validate(today); err == nil {
		t.Error("expected error for future date of birth")
	}

	malformed := valid
	malformed.DateOfBirth = "14/02/1990"
	if err := malformed.Validate(today); err == nil {
		t.Error("expected error for malformed date of birth")
	}

	noFamily := valid
	noFamily.FamilyID = ""
	if err := noFamily.Validate(today); err == nil {
		t.Error("expected error for missing family")
	}
}

func TestMemberInputNormalizeDropsPensionType(t *testing.T) {
	in := MemberInput{Name: " Ravi ", PensionType: "Widow"}.Normalize()
	if in.Name != "Ravi" {
		t.Errorf("name = %q, want Ravi", in.Name)
	}
	if in.PensionType != "" {
		t.Errorf("pension type = %q, want empty when not a pensioner", in.PensionType)
	}

	in = MemberInput{IsPensioner: true, PensionType: "Old age"}.Normalize()
	if in.PensionType != "Old age" {
		t.Errorf("pension type = %q, want Old age", in.PensionType)
	}
}

func TestRequestInputValidate(t *testing.T) {
	err := RequestInput{Description: "Ration card"}.Validate()
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Field != "memberId" {
		t.Fatalf("err = %v, want ValidationError on memberId", err)
	}
	if ve.Message != "Please select a person" {
		t.Errorf("message = %q", ve.Message)
	}
	if err := (RequestInput{MemberID: "m1"}).Validate(); err == nil {
		t.Error("expected error for missing description")
	}
}
