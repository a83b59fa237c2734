// internal/app/features/news/news.go
package news

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	newspoststore "github.com/AlCa38/habitica/internal/app/store/newsposts"
	"github.com/AlCa38/habitica/internal/app/system/apierr"
	"github.com/AlCa38/habitica/internal/app/system/authz"
	"github.com/AlCa38/habitica/internal/app/system/metrics"
	"github.com/AlCa38/habitica/internal/app/system/respond"
	"github.com/AlCa38/habitica/internal/app/system/timeouts"
	"github.com/AlCa38/habitica/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetNews handles GET /news.
//
// Anonymous callers and players see published posts whose publish date has
// passed. Contributor admins also see drafts and scheduled posts.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	isAdmin := authz.IsContributorAdmin(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.List(ctx, isAdmin, h.feedLimit())
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if posts == nil {
		posts = []models.NewsPost{}
	}
	respond.JSON(w, r, http.StatusOK, posts)
}

// CreateNews handles POST /news.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req createNewsRequest
	if err := bind(r, &req); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	post := req.post()
	post.AuthorID = authz.ActorID(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create news post")
	defer cancel()

	created, err := h.Posts.Create(ctx, post)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	_, actorID, _ := authz.UserCtx(r)
	h.Audit.NewsCreated(r.Context(), r, actorID, created.ID, created.Title)
	h.Metrics.NewsOp(metrics.OpCreate)

	respond.JSON(w, r, http.StatusCreated, created)
}

// GetNewsPost handles GET /news/{postId}.
func (h *Handler) GetNewsPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, storeErr(err))
		return
	}
	respond.JSON(w, r, http.StatusOK, post)
}

// UpdateNews handles PUT /news/{postId}. Only fields present in the body
// change.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update news post")
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, storeErr(err))
		return
	}

	var req updateNewsRequest
	if err := bind(r, &req); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	req.update().Apply(post)

	updated, err := h.Posts.Update(ctx, *post)
	if err != nil {
		respond.Error(w, r, h.Log, storeErr(err))
		return
	}

	_, actorID, _ := authz.UserCtx(r)
	h.Audit.NewsUpdated(r.Context(), r, actorID, updated.ID, updated.Title)
	h.Metrics.NewsOp(metrics.OpUpdate)

	respond.JSON(w, r, http.StatusOK, updated)
}

// DeleteNews handles DELETE /news/{postId}. The latest pointer is not
// touched, so it may keep naming the deleted post.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.Delete(ctx, id); err != nil {
		respond.Error(w, r, h.Log, storeErr(err))
		return
	}

	_, actorID, _ := authz.UserCtx(r)
	h.Audit.NewsDeleted(r.Context(), r, actorID, id)
	h.Metrics.NewsOp(metrics.OpDelete)

	respond.JSON(w, r, http.StatusOK, respond.Empty)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) feedLimit() int64 {
	if h.FeedLimit <= 0 {
		return DefaultFeedLimit
	}
	return h.FeedLimit
}

// postID reads the postId path parameter. A missing id is a validation
// error; one that cannot name any post is reported as not found.
func postID(r *http.Request) (primitive.ObjectID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "postId"))
	if raw == "" {
		return primitive.NilObjectID, apierr.PostIDRequired()
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apierr.NewsPostNotFound()
	}
	return id, nil
}

func storeErr(err error) error {
	if errors.Is(err, newspoststore.ErrNotFound) {
		return apierr.NewsPostNotFound()
	}
	return err
}

// bind decodes the JSON body into v and validates it. An empty body is
// treated as {}.
func bind(r *http.Request, v render.Binder) error {
	err := render.Bind(r, v)
	if errors.Is(err, io.EOF) {
		err = v.Bind(r)
	}
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apierr.BadRequest(err)
}
