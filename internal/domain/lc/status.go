package lc

import "fmt"

type Status string

const (
	StatusCreated              Status = "CREATED"
	StatusAwaitingExporterDocs Status = "AWAITING_EXPORTER_DOCS"
	StatusAwaitingAdminReview  Status = "AWAITING_ADMIN_REVIEW"
	StatusOnchain              Status = "ONCHAIN"
	StatusShipmentInitiated    Status = "SHIPMENT_INITIATED"
	StatusShipmentInTransit    Status = "SHIPMENT_IN_TRANSIT"
	StatusShipmentCompleted    Status = "SHIPMENT_COMPLETED"
)

// Lifecycle is the fixed forward order of LC statuses.
var Lifecycle = []Status{
	StatusCreated,
	StatusAwaitingExporterDocs,
	StatusAwaitingAdminReview,
	StatusOnchain,
	StatusShipmentInitiated,
	StatusShipmentInTransit,
	StatusShipmentCompleted,
}

// transitions lists every allowed move. Shipment statuses loop on themselves
// so a repeated phase update is accepted without moving the LC.
// AWAITING_EXPORTER_DOCS is never assigned by an action but stays a valid
// source for document submission (records imported from a snapshot may carry it).
var transitions = map[Status][]Status{
	StatusCreated:              {StatusAwaitingAdminReview},
	StatusAwaitingExporterDocs: {StatusAwaitingAdminReview},
	StatusAwaitingAdminReview:  {StatusOnchain},
	StatusOnchain:              {StatusShipmentInitiated, StatusShipmentInTransit, StatusShipmentCompleted},
	StatusShipmentInitiated:    {StatusShipmentInitiated, StatusShipmentInTransit, StatusShipmentCompleted},
	StatusShipmentInTransit:    {StatusShipmentInTransit, StatusShipmentCompleted},
	StatusShipmentCompleted:    {StatusShipmentCompleted},
}

func (s Status) Valid() bool { return s.Rank() >= 0 }

// Rank is the position in Lifecycle, or -1 for an unknown value.
func (s Status) Rank() int {
	for i, v := range Lifecycle {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, v := range transitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusShipmentCompleted }

// InShipment reports whether the LC has entered any shipment phase.
func (s Status) InShipment() bool { return s.Rank() >= StatusShipmentInitiated.Rank() }

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

type ShipmentPhase string

const (
	PhaseInitiated ShipmentPhase = "INITIATED"
	PhaseInTransit ShipmentPhase = "IN_TRANSIT"
	PhaseCompleted ShipmentPhase = "COMPLETED"
)

// LCStatus maps a shipment phase to the parent LC status.
func (p ShipmentPhase) LCStatus() (Status, error) {
	switch p {
	case PhaseInitiated:
		return StatusShipmentInitiated, nil
	case PhaseInTransit:
		return StatusShipmentInTransit, nil
	case PhaseCompleted:
		return StatusShipmentCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPhase, string(p))
}

func ParsePhase(raw string) (ShipmentPhase, error) {
	p := ShipmentPhase(raw)
	if _, err := p.LCStatus(); err != nil {
		return "", err
	}
	return p, nil
}
