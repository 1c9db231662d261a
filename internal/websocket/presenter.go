package websocket

import (
	"github.com/dukerupert/wardbook/internal/auth"
	"github.com/dukerupert/wardbook/internal/lifecycle"
	"github.com/dukerupert/wardbook/internal/model"
	"github.com/dukerupert/wardbook/internal/view"
)

// Frame types.
const (
	FrameRender = "render"
	FrameNotify = "notify"
	FrameModal  = "modal"
	FrameSubmit = "submit"
	FrameShow   = "show"
)

type notification struct {
	Message  string             `json:"message"`
	Severity lifecycle.Severity `json:"severity"`
}

type modalState struct {
	Open bool `json:"open"`
	Data any  `json:"data,omitempty"`
}

type submitState struct {
	Enabled bool `json:"enabled"`
}

// Presenter drives connected browsers by pushing frames through a hub.
// Renders and view switches are retained for late joiners; notifications
// and modal signals are not.
type Presenter struct {
	hub *Hub
}

func NewPresenter(hub *Hub) *Presenter {
	return &Presenter{hub: hub}
}

var _ lifecycle.Presenter = (*Presenter)(nil)

func (p *Presenter) RenderDashboard(stats view.Stats) {
	p.hub.Retain(NewFrame(FrameRender, "dashboard", stats))
}

func (p *Presenter) RenderFamilies(cards []view.FamilyCard) {
	p.hub.Retain(NewFrame(FrameRender, "families", cards))
}

func (p *Presenter) RenderMembers(cards []view.MemberCard) {
	p.hub.Retain(NewFrame(FrameRender, "members", cards))
}

func (p *Presenter) RenderQuery(result view.QueryResult) {
	p.hub.Retain(NewFrame(FrameRender, "query", result))
}

func (p *Presenter) RenderRequests(cards []view.RequestCard) {
	p.hub.Retain(NewFrame(FrameRender, "requests", cards))
}

func (p *Presenter) RenderPeople(members []model.Member) {
	p.hub.Broadcast(NewFrame(FrameRender, "people", members))
}

func (p *Presenter) Notify(message string, severity lifecycle.Severity) {
	p.hub.Broadcast(NewFrame(FrameNotify, "", notification{Message: message, Severity: severity}))
}

func (p *Presenter) OpenModal(form lifecycle.Form, data any) {
	p.hub.Broadcast(NewFrame(FrameModal, string(form), modalState{Open: true, Data: data}))
}

func (p *Presenter) CloseModal(form lifecycle.Form) {
	p.hub.Broadcast(NewFrame(FrameModal, string(form), modalState{Open: false}))
}

func (p *Presenter) SetSubmitEnabled(form lifecycle.Form, enabled bool) {
	p.hub.Broadcast(NewFrame(FrameSubmit, string(form), submitState{Enabled: enabled}))
}

// ShowLogin drops everything retained from the signed-in session.
func (p *Presenter) ShowLogin() {
	p.hub.Reset()
	p.hub.Retain(NewFrame(FrameShow, "login", nil))
}

func (p *Presenter) ShowApp(user auth.User) {
	p.hub.Reset()
	p.hub.Retain(NewFrame(FrameShow, "app", user))
}

func (p *Presenter) ShowSection(section lifecycle.Section) {
	p.hub.Retain(NewFrame(FrameShow, "section", section))
}
