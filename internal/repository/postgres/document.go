package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
)

type documentRepository struct {
	BaseRepository
}

func NewDocumentRepository(base BaseRepository) repository.DocumentRepository {
	return &documentRepository{base}
}

func (r *documentRepository) Get(ctx context.Context, id uuid.UUID) (*model.IdentificationDocument, error) {
	query := `
		SELECT id, patient_id, file_name, content_type, size, data, created_at, updated_at
		FROM identification_documents
		WHERE id = $1
	`

	var doc model.IdentificationDocument
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, fmt.Errorf("failed to get identification document: %w", mapError(err))
	}
	return &doc, nil
}
