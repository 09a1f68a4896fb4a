package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time `json:"occurredAt"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// PetCreated is raised when a pet enters the catalog.
type PetCreated struct {
	BaseEvent
	PetID  int64   `json:"petId"`
	Name   string  `json:"name"`
	Type   Species `json:"type"`
	Status Status  `json:"status"`
}

// EventName returns the event type identifier.
func (e PetCreated) EventName() string {
	return "pets.pet.created"
}

// PetUpdated is raised when a pet's attributes are modified.
type PetUpdated struct {
	BaseEvent
	PetID int64  `json:"petId"`
	Name  string `json:"name"`
}

// EventName returns the event type identifier.
func (e PetUpdated) EventName() string {
	return "pets.pet.updated"
}

// PetDeleted is raised when a pet is removed from the catalog.
type PetDeleted struct {
	BaseEvent
	PetID int64  `json:"petId"`
	Name  string `json:"name"`
}

// EventName returns the event type identifier.
func (e PetDeleted) EventName() string {
	return "pets.pet.deleted"
}

// PetStatusChanged is raised when the lifecycle status moves.
type PetStatusChanged struct {
	BaseEvent
	PetID      int64  `json:"petId"`
	FromStatus Status `json:"fromStatus"`
	ToStatus   Status `json:"toStatus"`
}

// EventName returns the event type identifier.
func (e PetStatusChanged) EventName() string {
	return "pets.pet.status_changed"
}

// AdoptionRequested is raised once the backend accepted an adoption request.
type AdoptionRequested struct {
	BaseEvent
	PetID     int64 `json:"petId"`
	AdopterID int64 `json:"adopterId"`
}

// EventName returns the event type identifier.
func (e AdoptionRequested) EventName() string {
	return "pets.adoption.requested"
}
