package campus

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"oza-attendance/backend/foundation/web"
	"oza-attendance/backend/internal/entity"
	"oza-attendance/backend/internal/pkg/repository/sheetdb"
)

// Repository reads the campus reference sheet: campus id in column A, name
// in column B, data from row 2. The sheet is read fresh on every call.
type Repository struct {
	*sheetdb.Database
}

func NewRepository(database *sheetdb.Database) *Repository {
	return &Repository{Database: database}
}

// List returns every campus with both id and name present.
func (r Repository) List(ctx context.Context) ([]entity.Campus, error) {
	var list []entity.Campus

	err := r.View(func(f *excelize.File) error {
		idx, err := f.GetSheetIndex(r.CampusSheet)
		if err != nil {
			return errors.Wrap(err, "looking up campus sheet")
		}
		if idx == -1 {
			return web.NewRequestError(errors.Errorf("campus sheet %q not found", r.CampusSheet), http.StatusInternalServerError)
		}

		rows, err := f.GetRows(r.CampusSheet)
		if err != nil {
			return errors.Wrap(err, "reading campus sheet")
		}

		for i := 1; i < len(rows); i++ {
			var id, name string
			if len(rows[i]) > 0 {
				id = strings.TrimSpace(rows[i][0])
			}
			if len(rows[i]) > 1 {
				name = strings.TrimSpace(rows[i][1])
			}

			if id == "" || name == "" {
				continue
			}

			list = append(list, entity.Campus{ID: id, Name: name})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return list, nil
}

// GetByID resolves one campus. Empty ids are a caller mistake; unknown ids
// are a 404 with the id named in the message.
func (r Repository) GetByID(ctx context.Context, campusID string) (entity.Campus, error) {
	campusID = strings.TrimSpace(campusID)
	if campusID == "" {
		return entity.Campus{}, web.NewRequestError(errors.New("campus id required"), http.StatusBadRequest)
	}

	list, err := r.List(ctx)
	if err != nil {
		return entity.Campus{}, err
	}

	for _, c := range list {
		if c.ID == campusID {
			return c, nil
		}
	}

	return entity.Campus{}, web.NewRequestError(errors.Errorf("campus %q not found", campusID), http.StatusNotFound)
}
