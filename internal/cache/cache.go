// Package cache holds the in-memory working set the UI renders from.
package cache

import (
	"sync"

	"github.com/dukerupert/wardbook/internal/model"
	"github.com/dukerupert/wardbook/internal/view"
)

// Slot names, as reported to observers.
const (
	SlotFamilies = "families"
	SlotMembers  = "members"
	SlotRequests = "requests"
)

// SizeObserver is told the new length of a slot whenever it changes.
type SizeObserver interface {
	ObserveSlotSize(slot string, n int)
}

// WorkingSet is the last loaded copy of each collection. Every setter
// replaces its slot wholesale, so concurrent loads resolve as last write
// wins.
type WorkingSet struct {
	mu           sync.RWMutex
	families     []model.Family
	members      []model.Member
	requests     []model.Request
	zoneFilter   int
	statusFilter model.RequestStatus

	observer SizeObserver
}

// New returns an empty working set. observer may be nil.
func New(observer SizeObserver) *WorkingSet {
	return &WorkingSet{observer: observer}
}

func (w *WorkingSet) observe(slot string, n int) {
	if w.observer != nil {
		w.observer.ObserveSlotSize(slot, n)
	}
}

func (w *WorkingSet) SetFamilies(families []model.Family) {
	w.mu.Lock()
	w.families = append([]model.Family(nil), families...)
	w.mu.Unlock()
	w.observe(SlotFamilies, len(families))
}

func (w *WorkingSet) SetMembers(members []model.Member) {
	w.mu.Lock()
	w.members = append([]model.Member(nil), members...)
	w.mu.Unlock()
	w.observe(SlotMembers, len(members))
}

func (w *WorkingSet) SetRequests(requests []model.Request) {
	w.mu.Lock()
	w.requests = append([]model.Request(nil), requests...)
	w.mu.Unlock()
	w.observe(SlotRequests, len(requests))
}

func (w *WorkingSet) Families() []model.Family {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]model.Family(nil), w.families...)
}

func (w *WorkingSet) Members() []model.Member {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]model.Member(nil), w.members...)
}

func (w *WorkingSet) Requests() []model.Request {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]model.Request(nil), w.requests...)
}

// ZoneFilter is the zone the families list is restricted to; 0 is all zones.
func (w *WorkingSet) ZoneFilter() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.zoneFilter
}

func (w *WorkingSet) SetZoneFilter(zone int) {
	w.mu.Lock()
	w.zoneFilter = zone
	w.mu.Unlock()
}

// StatusFilter is the selected request tab; "" is all.
func (w *WorkingSet) StatusFilter() model.RequestStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.statusFilter
}

func (w *WorkingSet) SetStatusFilter(s model.RequestStatus) {
	w.mu.Lock()
	w.statusFilter = s
	w.mu.Unlock()
}

// Clear empties every slot and resets both filters.
func (w *WorkingSet) Clear() {
	w.mu.Lock()
	w.families = nil
	w.members = nil
	w.requests = nil
	w.zoneFilter = 0
	w.statusFilter = ""
	w.mu.Unlock()
	w.observe(SlotFamilies, 0)
	w.observe(SlotMembers, 0)
	w.observe(SlotRequests, 0)
}

// SearchFamilies filters the cached families by name without reloading.
func (w *WorkingSet) SearchFamilies(q string) []model.Family {
	return view.FilterFamiliesByName(w.Families(), q)
}

// SearchMembers filters the cached members by name or phone without
// reloading.
func (w *WorkingSet) SearchMembers(q string) []model.Member {
	return view.FilterMembers(w.Members(), q)
}
