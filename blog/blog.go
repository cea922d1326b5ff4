// Package blog serves the shop's articles in the shopper's language.
package blog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/i18n"
	"storefront/models"
	"storefront/shopapi"
	"storefront/utils"
)

type Source interface {
	BlogPosts(ctx context.Context) ([]models.BlogPost, error)
	BlogPost(ctx context.Context, slug string) (*models.BlogPost, error)
}

// Post is a blog post with its text already chosen for one language.
type Post struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Content   string    `json:"content,omitempty"`
	Image     string    `json:"image,omitempty"`
	Author    string    `json:"author,omitempty"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// Localize picks the Bengali fields for bn, falling back to English per field.
func Localize(p models.BlogPost, lang string) Post {
	out := Post{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		Content:   p.Content,
		Image:     p.Image,
		Author:    p.Author,
		Date:      p.CreatedAt.Format("January 2, 2006"),
		CreatedAt: p.CreatedAt,
	}
	if lang == i18n.Bengali {
		out.Title = or(p.TitleBn, p.Title)
		out.Excerpt = or(p.ExcerptBn, p.Excerpt)
		out.Content = or(p.ContentBn, p.Content)
	}
	return out
}

type Handlers struct {
	Source Source
	Logger *zap.Logger
}

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	posts, err := h.Source.BlogPosts(r.Context())
	if err != nil {
		h.Logger.Error("fetch blog posts", zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load blog posts")
		return
	}

	lang := i18n.FromContext(r.Context())
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		lp := Localize(p, lang)
		lp.Content = ""
		out = append(out, lp)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"posts": out, "empty": len(out) == 0})
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slug := ps.ByName("slug")
	p, err := h.Source.BlogPost(r.Context(), slug)
	switch {
	case errors.Is(err, shopapi.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	case err != nil:
		h.Logger.Error("fetch blog post", zap.String("slug", slug), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load blog post")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, Localize(*p, i18n.FromContext(r.Context())))
}
