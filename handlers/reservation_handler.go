package handlers

import (
	"net/http"

	"github.com/asopadel/padel-system/middleware"
	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/services"
)

type ReservationHandler struct {
	reservationService services.ReservationService
}

func NewReservationHandler(reservationService services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, err.Error())
		return
	}

	var input services.CreateReservationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	// Players book for themselves; admins may book on behalf of anyone.
	if claims.Role != models.RoleAdmin || input.PlayerID == 0 {
		input.PlayerID = claims.UserID
	}

	reservation, err := h.reservationService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"reservation": reservation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	reservation, err := h.reservationService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reservation": reservation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, err.Error())
		return
	}
	reservations, err := h.reservationService.ListByPlayer(r.Context(), claims.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reservations": reservations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.reservationService.Confirm(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "reservation confirmed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, err.Error())
		return
	}
	if err := h.reservationService.Cancel(r.Context(), id, claims.UserID, claims.Role); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "reservation canceled"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
