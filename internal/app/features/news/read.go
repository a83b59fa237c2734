// internal/app/features/news/read.go
package news

import (
	"context"
	"net/http"

	"github.com/AlCa38/habitica/internal/app/system/apierr"
	"github.com/AlCa38/habitica/internal/app/system/auth"
	"github.com/AlCa38/habitica/internal/app/system/metrics"
	"github.com/AlCa38/habitica/internal/app/system/respond"
	"github.com/AlCa38/habitica/internal/app/system/timeouts"
	"github.com/AlCa38/habitica/internal/domain/models"
)

// MarkNewsRead handles POST /news/read. It records the latest post as read.
func (h *Handler) MarkNewsRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, r, h.Log, apierr.NotAuthorized(apierr.KeyMissingAuth))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.markRead(ctx, user); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := h.Users.SaveNewsState(ctx, user); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	h.Metrics.NewsOp(metrics.OpMarkRead)
	respond.JSON(w, r, http.StatusOK, respond.Empty)
}

// TellMeLaterNews handles POST /news/tell-me-later. The latest post is
// marked read and a single seen NEW_STUFF notification is left in its place
// so the client can remind the user later.
func (h *Handler) TellMeLaterNews(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, r, h.Log, apierr.NotAuthorized(apierr.KeyMissingAuth))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.markRead(ctx, user); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	user.Notifications.Replace(models.NotificationNewStuff, map[string]any{"title": h.newStuffTitle()}, true)

	if err := h.Users.SaveNewsState(ctx, user); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	h.Metrics.NewsOp(metrics.OpTellMeLater)
	respond.JSON(w, r, http.StatusOK, respond.Empty)
}

func (h *Handler) markRead(ctx context.Context, user *models.User) error {
	latest, err := h.Posts.Latest(ctx)
	if err != nil {
		return err
	}
	user.Flags.LastNewStuffRead = latest.PostIDHex()
	return nil
}

func (h *Handler) newStuffTitle() string {
	if h.NewStuffTitle == "" {
		return DefaultNewStuffTitle
	}
	return h.NewStuffTitle
}
