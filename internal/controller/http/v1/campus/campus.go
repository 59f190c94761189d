package campus

import (
	"net/http"

	"oza-attendance/backend/foundation/web"
)

type Controller struct {
	campuses Campuses
}

func NewController(campuses Campuses) *Controller {
	return &Controller{campuses}
}

// GetList feeds the campus dropdown on the check-in screen.
func (uc Controller) GetList(c *web.Context) error {
	list, err := uc.campuses.List(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   len(list),
		},
		"status": true,
	}, http.StatusOK)
}
