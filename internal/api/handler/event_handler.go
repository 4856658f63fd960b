package handler

import (
	"encoding/json"
	"net/http"

	"codeclub/internal/api/middleware"
	"codeclub/internal/app/service"
	"codeclub/internal/common"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	eventService       *service.EventService
	leaderboardService *service.LeaderboardService
}

func NewEventHandler(eventService *service.EventService, leaderboardService *service.LeaderboardService) *EventHandler {
	return &EventHandler{eventService: eventService, leaderboardService: leaderboardService}
}

// RegisterRoutes mounts the event surface: listings are public, registration
// needs a login, mutation and result recording are admin-only.
func (h *EventHandler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/results", h.listResults)

	r.Group(func(pr chi.Router) {
		pr.Use(authenticator)
		pr.Post("/{id}/register", h.register)
		pr.Delete("/{id}/register", h.unregister)
		pr.Get("/{id}/registrations", h.registrations)

		pr.Group(func(ar chi.Router) {
			ar.Use(middleware.AdminOnly)
			ar.Post("/", h.create)
			ar.Patch("/{id}", h.update)
			ar.Delete("/{id}", h.delete)
			ar.Post("/{id}/results", h.recordResult)
		})
	})
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	event, err := h.eventService.GetEvent(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	var req service.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), id, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	if err := h.eventService.DeleteEvent(r.Context(), id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

func (h *EventHandler) register(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	reg, err := h.eventService.RegisterUser(r.Context(), id, userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, reg)
}

func (h *EventHandler) unregister(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.eventService.UnregisterUser(r.Context(), id, userID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "registration removed"})
}

func (h *EventHandler) registrations(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	regs, err := h.eventService.ListRegistrations(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, regs)
}

func (h *EventHandler) recordResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	var req service.RecordResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.leaderboardService.RecordResult(r.Context(), id, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *EventHandler) listResults(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	results, err := h.leaderboardService.ListEventResults(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, results)
}
