package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/wardbook/internal/model"
)

type QueryKind string

const (
	QueryDisabled   QueryKind = "disabled"
	QuerySeniors    QueryKind = "seniors"
	QueryStudents   QueryKind = "students"
	QueryPensioners QueryKind = "pensioners"
)

var queries = map[QueryKind]struct {
	title string
	match func(model.Member) bool
}{
	QueryDisabled:   {"Disabled Members", func(m model.Member) bool { return m.IsDisabled }},
	QuerySeniors:    {"Senior Citizens (60+ years)", func(m model.Member) bool { return m.IsSeniorCitizen }},
	QueryStudents:   {"Students", func(m model.Member) bool { return m.IsStudent }},
	QueryPensioners: {"Pensioners", func(m model.Member) bool { return m.IsPensioner }},
}

// QueryResult is a titled list of matching members.
type QueryResult struct {
	Title   string       `json:"title"`
	Count   int          `json:"count"`
	Members []MemberCard `json:"members"`
}

func ParseQueryKind(s string) (QueryKind, error) {
	k := QueryKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := queries[k]; !ok {
		return "", model.ValidationError{Field: "query", Message: fmt.Sprintf("unknown query %q", s)}
	}
	return k, nil
}

// Query runs one of the canned category queries.
func Query(kind QueryKind, members []model.Member, today time.Time) (QueryResult, error) {
	q, ok := queries[kind]
	if !ok {
		return QueryResult{}, model.ValidationError{Field: "query", Message: fmt.Sprintf("unknown query %q", kind)}
	}
	return result(q.title, members, q.match, today), nil
}

// OccupationQuery matches members whose occupation contains occupation,
// ignoring case.
func OccupationQuery(occupation string, members []model.Member, today time.Time) (QueryResult, error) {
	occupation = strings.TrimSpace(occupation)
	if occupation == "" {
		return QueryResult{}, model.ValidationError{Field: "occupation", Message: "Please enter an occupation"}
	}
	needle := strings.ToLower(occupation)
	match := func(m model.Member) bool {
		return strings.Contains(strings.ToLower(m.Occupation), needle)
	}
	return result("Members with occupation: "+occupation, members, match, today), nil
}

func result(title string, members []model.Member, match func(model.Member) bool, today time.Time) QueryResult {
	var matched []model.Member
	for _, m := range members {
		if match(m) {
			matched = append(matched, m)
		}
	}
	return QueryResult{Title: title, Count: len(matched), Members: MemberCards(matched, today)}
}
