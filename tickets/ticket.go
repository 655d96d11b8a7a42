// Package tickets turns approved registrations into scannable tickets: a QR
// code image, a printable PDF, and the check-in scanner endpoint.
package tickets

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"eventhorizon/models"
	"eventhorizon/storage"
	"eventhorizon/utils"
)

type Handler struct {
	Store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{Store: store}
}

// qrPayload is what gets encoded into the QR image and decoded by the
// scanner.
type qrPayload struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`
}

func encodeQRPayload(reg *models.Registration) ([]byte, error) {
	return json.Marshal(qrPayload{ID: reg.RegistrationID, EventID: reg.EventID})
}

// ticketFor loads the registration and checks the requester owns it and it
// is approved. Writes the error response itself and returns nil on failure.
func (h *Handler) ticketFor(w http.ResponseWriter, r *http.Request, regID string) *models.Registration {
	reg, err := h.Store.RegistrationByID(r.Context(), regID)
	if err != nil {
		http.Error(w, "Registration not found", http.StatusNotFound)
		return nil
	}
	if reg.ParticipantID != utils.GetUserIDFromRequest(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil
	}
	if reg.Status != models.StatusApproved {
		http.Error(w, "Ticket is only available for approved registrations", http.StatusConflict)
		return nil
	}
	return reg
}

// GetTicketQR serves the ticket QR code as a PNG.
func (h *Handler) GetTicketQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reg := h.ticketFor(w, r, ps.ByName("id"))
	if reg == nil {
		return
	}

	payload, err := encodeQRPayload(reg)
	if err != nil {
		http.Error(w, "Failed to build ticket payload", http.StatusInternalServerError)
		return
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
