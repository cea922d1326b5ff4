// Package media serves resized product images.
package media

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/utils"
)

const (
	MinWidth     = 100
	MaxWidth     = 1200
	DefaultWidth = 400
	jpegQuality  = 85
)

// ImageSource fetches original images from the catalogue host.
type ImageSource interface {
	Image(ctx context.Context, src string) ([]byte, error)
}

type Handlers struct {
	Images ImageSource
	Logger *zap.Logger
}

// Thumbnail serves ?src= resized to ?w= pixels wide as JPEG. Images are
// never upscaled.
func (h *Handlers) Thumbnail(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	src := strings.TrimSpace(r.URL.Query().Get("src"))
	if src == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "src is required")
		return
	}
	width := max(MinWidth, min(utils.QueryInt(r, "w", DefaultWidth), MaxWidth))

	data, err := h.Images.Image(r.Context(), src)
	if err != nil {
		h.Logger.Warn("fetch image", zap.String("src", src), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load image")
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Unsupported image")
		return
	}
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		h.Logger.Error("encode thumbnail", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to encode image")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
