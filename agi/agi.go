// Package agi backs the "help me write this" and recommendation features.
// With a Gemini API key configured it calls the generative endpoint; without
// one it falls back to templates and popularity ranking so the endpoints
// always answer.
package agi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/models"
	"eventhorizon/storage"
	"eventhorizon/utils"
)

const geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

type Handler struct {
	Store  storage.Store
	APIKey string
	client *http.Client
}

func NewHandler(store storage.Store, apiKey string) *Handler {
	return &Handler{
		Store:  store,
		APIKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type descriptionRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Location string `json:"location"`
	Keywords string `json:"keywords"`
}

// GenerateDescription drafts an event description from a title and a few
// hints.
func (h *Handler) GenerateDescription(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req descriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	if h.APIKey != "" {
		prompt := fmt.Sprintf(
			"Write a short, engaging description (under 120 words) for an event titled %q.", req.Title)
		if req.Category != "" {
			prompt += " Category: " + req.Category + "."
		}
		if req.Location != "" {
			prompt += " Location: " + req.Location + "."
		}
		if req.Keywords != "" {
			prompt += " Mention: " + req.Keywords + "."
		}
		if text, err := h.generate(r.Context(), prompt); err == nil && text != "" {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"description": text, "source": "gemini"})
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"description": templateDescription(req),
		"source":      "template",
	})
}

func templateDescription(req descriptionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Join us for %s", req.Title)
	if req.Location != "" {
		fmt.Fprintf(&b, " at %s", req.Location)
	}
	b.WriteString("!")
	if req.Category != "" {
		fmt.Fprintf(&b, " A %s event you won't want to miss.", strings.ToLower(req.Category))
	}
	if req.Keywords != "" {
		fmt.Fprintf(&b, " Expect %s and more.", req.Keywords)
	}
	b.WriteString(" Seats are limited, so register early.")
	return b.String()
}

// RecommendEvents suggests upcoming events for the requester, ranked by how
// full they already are.
func (h *Handler) RecommendEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	events, err := h.Store.Events(ctx, storage.EventQuery{Page: 1, Limit: 50})
	if err != nil {
		http.Error(w, "Failed to fetch events", http.StatusInternalServerError)
		return
	}

	registered := map[string]bool{}
	if userID != "" {
		if regs, err := h.Store.RegistrationsByUser(ctx, userID); err == nil {
			for _, reg := range regs {
				registered[reg.EventID] = true
			}
		}
	}

	now := time.Now()
	var candidates []models.Event
	for _, e := range events {
		if registered[e.EventID] || !e.IsRegistrationOpen || e.Start.Before(now) {
			continue
		}
		candidates = append(candidates, e)
	}

	// fuller events first, a rough popularity signal
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && fillRatio(&candidates[j]) > fillRatio(&candidates[j-1]); j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
	if len(candidates) > 10 {
		candidates = candidates[:10]
	}
	if candidates == nil {
		candidates = []models.Event{}
	}
	utils.RespondWithJSON(w, http.StatusOK, candidates)
}

func fillRatio(e *models.Event) float64 {
	if e.Capacity == 0 {
		return 0
	}
	return float64(e.ActiveCount) / float64(e.Capacity)
}

// generate calls the Gemini REST endpoint and returns the first candidate's
// text.
func (h *Handler) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiURL+"?key="+h.APIKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, data)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}
