package services

import (
	"context"
	"dreamweaver/contract"
	"dreamweaver/domain"
	"dreamweaver/observability"
	"dreamweaver/runtime"

	"github.com/samber/lo"
)

type IBridgeService interface {
	Handshake(ctx context.Context, message domain.Event, transfer contract.Endpoint) error
	Participants() []domain.ParticipantStatus
	Stats() observability.MonitoringStats
}

// BridgeService exposes the host to the transports and the debug server.
type BridgeService struct {
	host       *runtime.Host
	monitoring *observability.MonitoringManager
}

func NewBridgeService(host *runtime.Host, monitoring *observability.MonitoringManager) *BridgeService {
	return &BridgeService{host: host, monitoring: monitoring}
}

func (s *BridgeService) Handshake(ctx context.Context, message domain.Event, transfer contract.Endpoint) error {
	return s.host.PostMessage(ctx, message, transfer)
}

func (s *BridgeService) Participants() []domain.ParticipantStatus {
	return lo.Map(s.host.Registry().Snapshot(), func(r runtime.ParticipantRecord, _ int) domain.ParticipantStatus {
		return domain.ParticipantStatus{ParticipantMetadata: r.Metadata, Registered: r.Registered}
	})
}

func (s *BridgeService) Stats() observability.MonitoringStats {
	return s.monitoring.GetLatest()
}
