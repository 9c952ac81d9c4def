package storage

import (
	"context"
	"dreamweaver/contract"
	"dreamweaver/domain"
	"dreamweaver/errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const participantPrefix = "catalogue:participant:"

// CatalogueRepository persists the participant catalogue in BadgerDB.
// Keys carry the catalogue position so iteration gives back the saved order.
type CatalogueRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewCatalogueRepository(db *badger.DB, log *slog.Logger) *CatalogueRepository {
	return &CatalogueRepository{db: db, log: log}
}

// Save validates entries and replaces the stored catalogue atomically.
func (r CatalogueRepository) Save(entries []domain.ParticipantMetadata) error {
	if err := domain.ValidateCatalogue(entries); err != nil {
		return err
	}

	values := make([][]byte, len(entries))
	for i, m := range entries {
		data, err := proto.Marshal(toPbParticipant(m))
		if err != nil {
			return fmt.Errorf("failed to marshal participant %s: %w", m.ID, err)
		}
		values[i] = data
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, []byte(participantPrefix)); err != nil {
			return err
		}
		for i, m := range entries {
			if err := txn.Set(participantKey(i, m.ID), values[i]); err != nil {
				return err
			}
		}
		r.log.Debug("Catalogue saved", "participants", len(entries))
		return nil
	})
}

// Seed saves the participants of another catalogue.
func (r CatalogueRepository) Seed(ctx context.Context, from contract.Catalogue) (int, error) {
	entries, err := from.GetParticipants(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), r.Save(entries)
}

// GetParticipants returns the stored catalogue in saved order.
func (r CatalogueRepository) GetParticipants(ctx context.Context) ([]domain.ParticipantMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []domain.ParticipantMetadata
	prefix := []byte(participantPrefix)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var pbParticipant structpb.Struct
				if err := proto.Unmarshal(v, &pbParticipant); err != nil {
					return fmt.Errorf("failed to unmarshal participant: %w", err)
				}
				m, err := fromPbParticipant(&pbParticipant)
				if err != nil {
					return err
				}
				entries = append(entries, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during catalogue fetch: %w", err)
	}
	return entries, nil
}

func participantKey(position int, id domain.ParticipantID) []byte {
	return []byte(fmt.Sprintf("%s%06d:%s", participantPrefix, position, id))
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func toPbParticipant(m domain.ParticipantMetadata) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":          structpb.NewStringValue(string(m.ID)),
		"displayName": structpb.NewStringValue(m.DisplayName),
		"publisher":   structpb.NewStringValue(m.Publisher),
		"originUrl":   structpb.NewStringValue(m.OriginURL),
		"interests": structpb.NewListValue(&structpb.ListValue{
			Values: lo.Map(m.Interests, func(name string, _ int) *structpb.Value {
				return structpb.NewStringValue(name)
			}),
		}),
	}}
}

func fromPbParticipant(p *structpb.Struct) (domain.ParticipantMetadata, error) {
	fields := p.GetFields()
	var interests []string
	for _, v := range fields["interests"].GetListValue().GetValues() {
		name, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return domain.ParticipantMetadata{}, fmt.Errorf("%w: interest is not a string", errors.ErrInvalidCatalogue)
		}
		interests = append(interests, name.StringValue)
	}
	return domain.ParticipantMetadata{
		ID:          domain.ParticipantID(fields["id"].GetStringValue()),
		DisplayName: fields["displayName"].GetStringValue(),
		Publisher:   fields["publisher"].GetStringValue(),
		OriginURL:   fields["originUrl"].GetStringValue(),
		Interests:   interests,
	}, nil
}
