package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// 10 MiB cap on uploaded audio clips.
const maxAudioUpload = 10 << 20

type audioGateway interface {
	FetchAudio(ctx context.Context, uid string) ([]byte, string, error)
	SpeechToText(ctx context.Context, audio []byte) (string, error)
}

// AudioHandler relays audio assets between the browser and the backend:
// playback for listening lessons, transcription for captured speech.
type AudioHandler struct {
	gateway audioGateway
}

func NewAudioHandler(gateway audioGateway) *AudioHandler {
	return &AudioHandler{gateway: gateway}
}

func (h *AudioHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Audio uid is required", r))
		return
	}

	data, contentType, err := h.gateway.FetchAudio(r.Context(), uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *AudioHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	audio, err := io.ReadAll(io.LimitReader(r.Body, maxAudioUpload))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read audio body", r))
		return
	}
	if len(audio) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Audio body is empty", r))
		return
	}

	transcript, err := h.gateway.SpeechToText(r.Context(), audio)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"transcript": transcript})
}
