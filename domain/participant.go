// Package domain contains core concepts of the event bus.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"dreamweaver/errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

type ParticipantID string

// ParticipantMetadata is one catalogue entry. It is read-only for the router.
type ParticipantMetadata struct {
	ID          ParticipantID `json:"id" validate:"required"`
	DisplayName string        `json:"displayName" validate:"required"`
	Publisher   string        `json:"publisher"`
	OriginURL   string        `json:"originUrl" validate:"required,url"`
	Interests   []string      `json:"interests" validate:"dive,required"`
}

// IsInterestedIn reports whether the participant declared the event name.
func (m ParticipantMetadata) IsInterestedIn(name string) bool {
	return lo.Contains(m.Interests, name)
}

// Copy returns metadata that shares no slice with the receiver.
func (m ParticipantMetadata) Copy() ParticipantMetadata {
	m.Interests = append([]string(nil), m.Interests...)
	return m
}

// ValidateMetadata checks a catalogue entry before it reaches the registry.
func ValidateMetadata(m ParticipantMetadata) error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrInvalidCatalogue, m.ID, err)
	}
	return nil
}

// ValidateCatalogue validates every entry and rejects duplicate ids or origins.
func ValidateCatalogue(entries []ParticipantMetadata) error {
	ids := make(map[ParticipantID]struct{}, len(entries))
	origins := make(map[string]struct{}, len(entries))
	for _, m := range entries {
		if err := ValidateMetadata(m); err != nil {
			return err
		}
		if _, ok := ids[m.ID]; ok {
			return fmt.Errorf("%w: duplicate id %s", errors.ErrInvalidCatalogue, m.ID)
		}
		if _, ok := origins[m.OriginURL]; ok {
			return fmt.Errorf("%w: duplicate origin %s", errors.ErrInvalidCatalogue, m.OriginURL)
		}
		ids[m.ID] = struct{}{}
		origins[m.OriginURL] = struct{}{}
	}
	return nil
}

// ParticipantStatus is the public view of a registry entry.
type ParticipantStatus struct {
	ParticipantMetadata
	Registered bool `json:"registered"`
}
