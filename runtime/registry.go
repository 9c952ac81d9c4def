package runtime

import (
	"dreamweaver/contract"
	"dreamweaver/domain"
	"dreamweaver/errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// ParticipantRecord is the host-owned registry entry of one catalogue participant.
// Endpoint stays nil until the participant completed its handshake.
type ParticipantRecord struct {
	Metadata   domain.ParticipantMetadata
	Registered bool
	Endpoint   contract.Endpoint
}

func (r ParticipantRecord) copy() ParticipantRecord {
	r.Metadata = r.Metadata.Copy()
	return r
}

// Registry maps catalogue participants to their live channel endpoint.
// It is the only writer of its records; every read returns copies.
type Registry struct {
	mu      sync.RWMutex
	records []*ParticipantRecord
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Load replaces the entire record set. Every entry starts unregistered.
func (r *Registry) Load(entries []domain.ParticipantMetadata) {
	records := lo.Map(entries, func(m domain.ParticipantMetadata, _ int) *ParticipantRecord {
		return &ParticipantRecord{Metadata: m.Copy()}
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = records
}

// Register attaches the endpoint to the record whose origin matches.
// A second registration for the same origin wins over the first one, whose
// endpoint is returned as superseded so the caller can tear it down.
func (r *Registry) Register(origin string, endpoint contract.Endpoint) (ParticipantRecord, contract.Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := lo.Find(r.records, func(rec *ParticipantRecord) bool {
		return rec.Metadata.OriginURL == origin
	})
	if !ok {
		return ParticipantRecord{}, nil, fmt.Errorf("%w: %s", errors.ErrUnknownOrigin, origin)
	}

	superseded := record.Endpoint
	record.Registered = true
	record.Endpoint = endpoint
	return record.copy(), superseded, nil
}

// FindInterested returns, in catalogue order, every registered record whose
// interests contain eventName, except the one identified by excludingID.
func (r *Registry) FindInterested(eventName string, excludingID domain.ParticipantID) []ParticipantRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(r.records, func(rec *ParticipantRecord, _ int) (ParticipantRecord, bool) {
		if !rec.Registered || rec.Metadata.ID == excludingID || !rec.Metadata.IsInterestedIn(eventName) {
			return ParticipantRecord{}, false
		}
		return rec.copy(), true
	})
}

// Lookup returns the record of a participant, registered or not.
func (r *Registry) Lookup(id domain.ParticipantID) (ParticipantRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := lo.Find(r.records, func(rec *ParticipantRecord) bool {
		return rec.Metadata.ID == id
	})
	if !ok {
		return ParticipantRecord{}, false
	}
	return record.copy(), true
}

// Snapshot returns a copy of every record in catalogue order.
func (r *Registry) Snapshot() []ParticipantRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.records, func(rec *ParticipantRecord, _ int) ParticipantRecord {
		return rec.copy()
	})
}
