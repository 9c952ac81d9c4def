// Package catalogue provides the participant catalogues the host can load from.
package catalogue

import (
	"context"
	"dreamweaver/domain"

	"github.com/samber/lo"
)

var sampleInterests = []string{
	"test-message",
	"patient-context:started",
	"patient-context:changed",
	"patient-context:ended",
}

// Static serves a fixed list of participants.
type Static struct {
	entries []domain.ParticipantMetadata
}

func NewStatic(entries ...domain.ParticipantMetadata) *Static {
	return &Static{entries: lo.Map(entries, func(m domain.ParticipantMetadata, _ int) domain.ParticipantMetadata {
		return m.Copy()
	})}
}

// Sample is the two-participant catalogue used by the sample participants.
func Sample() *Static {
	return NewStatic(
		domain.ParticipantMetadata{
			ID:          "168be560-ab86-4020-a41e-a30e51dbbab8",
			DisplayName: "CoreGP",
			Publisher:   "CoreGpSys",
			OriginURL:   "http://localhost:3101",
			Interests:   append([]string(nil), sampleInterests...),
		},
		domain.ParticipantMetadata{
			ID:          "34480cf8-7ada-4f81-9fd5-643b6fe269d0",
			DisplayName: "AnotherModule",
			Publisher:   "GpSystems",
			OriginURL:   "http://localhost:3102",
			Interests:   append([]string(nil), sampleInterests...),
		},
	)
}

func (s *Static) GetParticipants(ctx context.Context) ([]domain.ParticipantMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := domain.ValidateCatalogue(s.entries); err != nil {
		return nil, err
	}
	return lo.Map(s.entries, func(m domain.ParticipantMetadata, _ int) domain.ParticipantMetadata {
		return m.Copy()
	}), nil
}
