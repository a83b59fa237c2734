// Package respond writes the JSON envelope shared by every API response.
package respond

import (
	"net/http"

	"github.com/AlCa38/habitica/internal/app/system/apierr"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// Empty is the data payload for endpoints that return "{}".
var Empty = struct{}{}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// JSON writes {"success":true,"data":data} with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, envelope{Success: true, Data: data})
}

// Error translates err into its API error and writes it.
// Server-side failures are logged; caller errors are not.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	ae := apierr.From(err)
	if ae.Status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
	}
	if rerr := render.Render(w, r, ae.Renderer(r)); rerr != nil && log != nil {
		log.Warn("render error response", zap.Error(rerr), zap.String("path", r.URL.Path))
	}
}
