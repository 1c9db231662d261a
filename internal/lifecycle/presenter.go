package lifecycle

import (
	"github.com/dukerupert/wardbook/internal/auth"
	"github.com/dukerupert/wardbook/internal/model"
	"github.com/dukerupert/wardbook/internal/view"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Form identifies a modal or submit control in the UI.
type Form string

const (
	FormLogin   Form = "login"
	FormFamily  Form = "family"
	FormMember  Form = "member"
	FormRequest Form = "request"
)

// Presenter is the UI surface the controller drives.
type Presenter interface {
	RenderDashboard(stats view.Stats)
	RenderFamilies(cards []view.FamilyCard)
	RenderMembers(cards []view.MemberCard)
	RenderQuery(result view.QueryResult)
	RenderRequests(cards []view.RequestCard)
	// RenderPeople feeds the person picker on the request form.
	RenderPeople(members []model.Member)
	Notify(message string, severity Severity)
	OpenModal(form Form, data any)
	CloseModal(form Form)
	SetSubmitEnabled(form Form, enabled bool)
	ShowLogin()
	ShowApp(user auth.User)
	ShowSection(section Section)
}
