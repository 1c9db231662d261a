// Package view projects ward entities into what the presentation layer
// renders. Everything here is a pure function of its inputs.
package view

import (
	"strings"
	"time"

	"github.com/dukerupert/wardbook/internal/model"
)

// Stats holds the six dashboard counts.
type Stats struct {
	Families   int `json:"families"`
	Members    int `json:"members"`
	Disabled   int `json:"disabled"`
	Seniors    int `json:"seniors"`
	Students   int `json:"students"`
	Pensioners int `json:"pensioners"`
}

func Dashboard(familyCount int, members []model.Member) Stats {
	s := Stats{Families: familyCount, Members: len(members)}
	for _, m := range members {
		if m.IsDisabled {
			s.Disabled++
		}
		if m.IsSeniorCitizen {
			s.Seniors++
		}
		if m.IsStudent {
			s.Students++
		}
		if m.IsPensioner {
			s.Pensioners++
		}
	}
	return s
}

// Age returns full years between dob and today. The year difference drops by
// one when today's month and day come before the birth month and day.
func Age(dob, today time.Time) int {
	if dob.IsZero() {
		return 0
	}
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

func Badges(m model.Member) []string {
	var badges []string
	if m.IsStudent {
		badges = append(badges, "Student")
	}
	if m.IsSeniorCitizen {
		badges = append(badges, "Senior")
	}
	if m.IsDisabled {
		badges = append(badges, "Disabled")
	}
	if m.IsPensioner {
		badges = append(badges, "Pensioner")
	}
	return badges
}

type MemberCard struct {
	model.Member
	Age    int      `json:"age"`
	Badges []string `json:"badges"`
}

func MemberCards(members []model.Member, today time.Time) []MemberCard {
	cards := make([]MemberCard, 0, len(members))
	for _, m := range members {
		cards = append(cards, MemberCard{Member: m, Age: Age(m.DateOfBirth, today), Badges: Badges(m)})
	}
	return cards
}

type FamilyCard struct {
	model.Family
	MemberCount int          `json:"member_count"`
	Members     []MemberCard `json:"members"`
}

// FamilyCards attaches to each family the members whose FamilyID matches it,
// preserving the input order of both lists.
func FamilyCards(families []model.Family, members []model.Member, today time.Time) []FamilyCard {
	byFamily := make(map[string][]model.Member)
	for _, m := range members {
		byFamily[m.FamilyID] = append(byFamily[m.FamilyID], m)
	}

	cards := make([]FamilyCard, 0, len(families))
	for _, f := range families {
		own := MemberCards(byFamily[f.ID], today)
		cards = append(cards, FamilyCard{Family: f, MemberCount: len(own), Members: own})
	}
	return cards
}

// FilterFamiliesByName keeps families whose name contains q, ignoring case.
func FilterFamiliesByName(families []model.Family, q string) []model.Family {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return families
	}
	var out []model.Family
	for _, f := range families {
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}
	return out
}

// FilterMembers keeps members matching q by name (any case) or phone.
func FilterMembers(members []model.Member, q string) []model.Member {
	if strings.TrimSpace(q) == "" {
		return members
	}
	var out []model.Member
	for _, m := range members {
		if m.Matches(q) {
			out = append(out, m)
		}
	}
	return out
}
