package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/pkg/logger"
)

// activityNameParam is the path wildcard holding the activity name.
const activityNameParam = "activity_name"

// RosterHandler handles sign-up and unregister requests.
type RosterHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps Dependencies, l logger.Logger) *RosterHandler {
	return &RosterHandler{deps: deps, logger: l}
}

// HandleSignUp handles POST /activities/{activity_name}/signup?email= requests.
func (h *RosterHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "api.signup", h.deps.SignUp, "Signed up %s for %s")
}

// HandleUnregister handles POST /activities/{activity_name}/unregister?email= requests.
func (h *RosterHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "api.unregister", h.deps.Unregister, "Unregistered %s from %s")
}

type rosterFunc func(ctx context.Context, activity, email string) (model.Activity, error)

func (h *RosterHandler) handle(w http.ResponseWriter, r *http.Request, op string, fn rosterFunc, format string) {
	activity := r.PathValue(activityNameParam)
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", NewKind(op, ErrMissingEmail))
		return
	}

	if _, err := fn(r.Context(), activity, email); err != nil {
		err = Wrap(op, err)
		h.logger.Debug(r.Context(), "roster request rejected", logger.Error(err))
		writeRosterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf(format, email, activity)})
}
