package wire

import (
	"dreamweaver/domain"
	"dreamweaver/errors"
	"fmt"

	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct encodes an event. Data goes through the channel clone first, so
// what travels over gRPC is exactly what an in-process channel would deliver.
func ToStruct(e domain.Event) (*structpb.Struct, error) {
	cloned, err := e.Clone()
	if err != nil {
		return nil, err
	}
	data, err := structpb.NewValue(cloned.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrNotTransferable, e.Name, err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"name":    structpb.NewStringValue(e.Name),
		"version": structpb.NewStringValue(e.Version),
		"data":    data,
	}}, nil
}

func FromStruct(s *structpb.Struct) (domain.Event, error) {
	fields := s.GetFields()
	name := fields["name"].GetStringValue()
	if name == "" {
		return domain.Event{}, fmt.Errorf("%w: event without name", errors.ErrInvalidPayload)
	}
	var data any
	if v, ok := fields["data"]; ok {
		data = v.AsInterface()
	}
	return domain.Event{
		Name:    name,
		Version: fields["version"].GetStringValue(),
		Data:    data,
	}, nil
}

// ParticipantsToStruct encodes a registry listing.
func ParticipantsToStruct(participants []domain.ParticipantStatus) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"participants": structpb.NewListValue(&structpb.ListValue{
			Values: lo.Map(participants, func(p domain.ParticipantStatus, _ int) *structpb.Value {
				return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
					"id":          structpb.NewStringValue(string(p.ID)),
					"displayName": structpb.NewStringValue(p.DisplayName),
					"publisher":   structpb.NewStringValue(p.Publisher),
					"originUrl":   structpb.NewStringValue(p.OriginURL),
					"registered":  structpb.NewBoolValue(p.Registered),
					"interests": structpb.NewListValue(&structpb.ListValue{
						Values: lo.Map(p.Interests, func(name string, _ int) *structpb.Value {
							return structpb.NewStringValue(name)
						}),
					}),
				}})
			}),
		}),
	}}
}

func ParticipantsFromStruct(s *structpb.Struct) []domain.ParticipantStatus {
	values := s.GetFields()["participants"].GetListValue().GetValues()
	return lo.Map(values, func(v *structpb.Value, _ int) domain.ParticipantStatus {
		fields := v.GetStructValue().GetFields()
		return domain.ParticipantStatus{
			ParticipantMetadata: domain.ParticipantMetadata{
				ID:          domain.ParticipantID(fields["id"].GetStringValue()),
				DisplayName: fields["displayName"].GetStringValue(),
				Publisher:   fields["publisher"].GetStringValue(),
				OriginURL:   fields["originUrl"].GetStringValue(),
				Interests: lo.Map(fields["interests"].GetListValue().GetValues(), func(i *structpb.Value, _ int) string {
					return i.GetStringValue()
				}),
			},
			Registered: fields["registered"].GetBoolValue(),
		}
	})
}
