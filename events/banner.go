package events

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"

	"eventhorizon/utils"
)

const bannerDir = "./uploads/banners"

// UploadBanner stores an event banner image and a 300px thumbnail next to it.
func (h *Handler) UploadBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	event, err := h.Store.EventByID(r.Context(), eventID)
	if err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	if !h.canManage(r, event) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("banner")
	if err != nil {
		http.Error(w, "Banner file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	filename, err := utils.SaveFile(file, header, bannerDir)
	if err != nil {
		log.Printf("Failed to save banner for %s: %v", eventID, err)
		http.Error(w, "Failed to save banner", http.StatusInternalServerError)
		return
	}

	bannerPath := filepath.Join(bannerDir, filename)
	if img, err := imaging.Open(bannerPath); err == nil {
		thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
		thumbPath := filepath.Join(bannerDir, "thumb_"+filename)
		if err := imaging.Save(thumb, thumbPath); err != nil {
			log.Printf("Failed to save banner thumbnail for %s: %v", eventID, err)
		}
	}

	event.BannerURL = "/uploads/banners/" + filename
	event.UpdatedAt = time.Now().UTC()
	if err := h.Store.UpdateEvent(r.Context(), event); err != nil {
		http.Error(w, "Failed to update event", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"banner_url": event.BannerURL,
	})
}
