package http

import (
	"chatwire/infrastructure/media"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type MediaHandler struct {
	store  media.IStore
	logger *zap.Logger
}

func NewMediaHandler(store media.IStore, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		store:  store,
		logger: logger,
	}
}

// Method Get /media/{id}
func (h *MediaHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, info, err := h.store.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("open image",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("image_id", id),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", info.ContentType)
	if info.Length > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Length, 10))
	}
	// stored images never change
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("stream image", zap.String("image_id", id), zap.Error(err))
	}
}
