package handlers

import (
	"net/http"
	"strconv"

	"github.com/41vi4p/MediStock/internal/service"
)

// ActivityHandler serves the family activity history
type ActivityHandler struct {
	activityQuery *service.ActivityQueryService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityQuery *service.ActivityQueryService) *ActivityHandler {
	return &ActivityHandler{activityQuery: activityQuery}
}

// ListActivity handles GET /api/activity?type=&limit=&offset=
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	entries, total, err := h.activityQuery.ListFamilyActivity(user.ID, query.Get("type"), limit, offset)
	if err != nil {
		respondWithError(w, err)
		return
	}

	views := make([]ActivityLogView, 0, len(entries))
	for i := range entries {
		views = append(views, newActivityLogView(&entries[i]))
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entries": views,
		"total":   total,
	})
}
