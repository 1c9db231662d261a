package view

import (
	"testing"
	"time"

	"github.com/dukerupert/wardbook/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	tests := []struct {
		dob, today time.Time
		want       int
	}{
		{date(2000, 3, 15), date(2024, 3, 14), 23},
		{date(2000, 3, 15), date(2024, 3, 15), 24},
		{date(2000, 3, 15), date(2024, 12, 1), 24},
		{date(2000, 12, 31), date(2024, 1, 1), 23},
		{date(2000, 2, 29), date(2023, 2, 28), 22},
		{date(2000, 2, 29), date(2023, 3, 1), 23},
		{date(2000, 2, 29), date(2024, 2, 29), 24},
		{date(2024, 5, 1), date(2024, 5, 1), 0},
	}
	for _, tt := range tests {
		if got := Age(tt.dob, tt.today); got != tt.want {
			t.Errorf("Age(%s, %s) = %d, want %d", tt.dob.Format("2006-01-02"), tt.today.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestDashboard(t *testing.T) {
	members := []model.Member{
		{Name: "A", IsDisabled: true, IsSeniorCitizen: true},
		{Name: "B", IsStudent: true},
		{Name: "C", IsPensioner: true, IsSeniorCitizen: true},
		{Name: "D"},
	}
	got := Dashboard(2, members)
	want := Stats{Families: 2, Members: 4, Disabled: 1, Seniors: 2, Students: 1, Pensioners: 1}
	if got != want {
		t.Errorf("Dashboard = %+v, want %+v", got, want)
	}
}

func TestBadges(t *testing.T) {
	got := Badges(model.Member{IsStudent: true, IsDisabled: true, IsPensioner: true, IsSeniorCitizen: true})
	want := []string{"Student", "Senior", "Disabled", "Pensioner"}
	if len(got) != len(want) {
		t.Fatalf("badges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("badges[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if b := Badges(model.Member{}); len(b) != 0 {
		t.Errorf("expected no badges, got %v", b)
	}
}

func TestFamilyCardsGroupsMembers(t *testing.T) {
	families := []model.Family{{ID: "f1", Name: "Abraham"}, {ID: "f2", Name: "Menon"}}
	members := []model.Member{
		{ID: "m1", FamilyID: "f2", Name: "Devi", DateOfBirth: date(1950, 1, 1), IsSeniorCitizen: true},
		{ID: "m2", FamilyID: "f1", Name: "Joseph"},
		{ID: "m3", FamilyID: "f2", Name: "Gopal"},
		{ID: "m4", FamilyID: "gone", Name: "Orphan"},
	}
	cards := FamilyCards(families, members, date(2024, 6, 1))
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	if cards[0].MemberCount != 1 || cards[0].Members[0].ID != "m2" {
		t.Errorf("f1 members = %+v", cards[0].Members)
	}
	if cards[1].MemberCount != 2 {
		t.Fatalf("f2 member count = %d, want 2", cards[1].MemberCount)
	}
	if cards[1].Members[0].Age != 74 {
		t.Errorf("Devi age = %d, want 74", cards[1].Members[0].Age)
	}
	if len(cards[1].Members[0].Badges) != 1 || cards[1].Members[0].Badges[0] != "Senior" {
		t.Errorf("Devi badges = %v", cards[1].Members[0].Badges)
	}
}

func TestFilterFamiliesByName(t *testing.T) {
	families := []model.Family{{Name: "Abraham"}, {Name: "Menon"}, {Name: "Ramesh Menon"}}
	got := FilterFamiliesByName(families, "MENON")
	if len(got) != 2 {
		t.Errorf("got %d families, want 2", len(got))
	}
	if all := FilterFamiliesByName(families, " "); len(all) != 3 {
		t.Errorf("empty query returned %d, want 3", len(all))
	}
}

func TestFilterMembers(t *testing.T) {
	members := []model.Member{
		{Name: "Asha Nair", Phone: "9847012345"},
		{Name: "Ravi", Phone: "9495000111"},
	}
	if got := FilterMembers(members, "asha"); len(got) != 1 || got[0].Name != "Asha Nair" {
		t.Errorf("name search = %v", got)
	}
	if got := FilterMembers(members, "9495"); len(got) != 1 || got[0].Name != "Ravi" {
		t.Errorf("phone search = %v", got)
	}
	if got := FilterMembers(members, "zzz"); len(got) != 0 {
		t.Errorf("expected no match, got %v", got)
	}
}
