package catalogue

import (
	"context"
	"dreamweaver/domain"
	"dreamweaver/errors"
	"encoding/json"
	"fmt"
	"os"
)

// File reads a JSON array of participants each time it is asked.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) GetParticipants(ctx context.Context) ([]domain.ParticipantMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("unable to read catalogue %s: %w", f.path, err)
	}
	var entries []domain.ParticipantMetadata
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrInvalidCatalogue, f.path, err)
	}
	if err := domain.ValidateCatalogue(entries); err != nil {
		return nil, err
	}
	return entries, nil
}
