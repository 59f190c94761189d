package campus

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/entity"
	"oza-attendance/backend/internal/pkg/repository/postgresql"
)

// Repository reads the campus reference table.
type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) List(ctx context.Context) ([]entity.Campus, error) {
	var list []entity.Campus

	err := r.NewSelect().
		Model(&list).
		Where("campus_id != '' AND name != ''").
		Order("campus_id").
		Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting campuses"), http.StatusInternalServerError)
	}

	return list, nil
}

func (r Repository) GetByID(ctx context.Context, campusID string) (entity.Campus, error) {
	campusID = strings.TrimSpace(campusID)
	if campusID == "" {
		return entity.Campus{}, web.NewRequestError(errors.New("campus id required"), http.StatusBadRequest)
	}

	var campus entity.Campus
	err := r.NewSelect().Model(&campus).Where("campus_id = ?", campusID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Campus{}, web.NewRequestError(errors.Errorf("campus %q not found", campusID), http.StatusNotFound)
	}
	if err != nil {
		return entity.Campus{}, web.NewRequestError(errors.Wrap(err, "selecting campus"), http.StatusInternalServerError)
	}

	return campus, nil
}
