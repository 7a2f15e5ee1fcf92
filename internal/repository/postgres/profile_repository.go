package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devmart/media-pipeline-go/internal/db"
	"github.com/devmart/media-pipeline-go/internal/model"
	"github.com/devmart/media-pipeline-go/internal/port"
	imageSvc "github.com/devmart/media-pipeline-go/internal/usecase/image"
)

// ProfileRepository resolves authenticated subjects to admin-panel profiles.
type ProfileRepository struct {
	db *db.Database
}

// compile-time check: *ProfileRepository must satisfy port.ProfileRepository
var _ port.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(database *db.Database) *ProfileRepository {
	return &ProfileRepository{db: database}
}

func (r *ProfileRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	const query = `SELECT id, role FROM profiles WHERE id = $1`

	var p model.Profile
	if err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, imageSvc.ErrObjectNotFound
		}
		return nil, err
	}
	return &p, nil
}
