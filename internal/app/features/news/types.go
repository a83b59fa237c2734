// internal/app/features/news/types.go
package news

import (
	"net/http"

	"github.com/AlCa38/habitica/internal/app/system/inputval"
	"github.com/AlCa38/habitica/internal/domain/models"
)

// createNewsRequest is the POST /news body. Fields not declared here are
// dropped by the decoder. Declared fields are stored exactly as sent; text
// is Markdown and is rendered and sanitized by the client.
type createNewsRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=500"`
	Text        string `json:"text"`
	Credits     string `json:"credits"`
	PublishDate string `json:"publishDate" validate:"required,newsdate"`
	Published   bool   `json:"published"`
}

// Bind implements render.Binder.
func (req *createNewsRequest) Bind(r *http.Request) error {
	return inputval.Struct(req)
}

// post converts the validated request into a model. Bind must have succeeded.
func (req *createNewsRequest) post() models.NewsPost {
	date, _ := inputval.ParseDate(req.PublishDate)
	return models.NewsPost{
		Title:       req.Title,
		Text:        req.Text,
		Credits:     req.Credits,
		PublishDate: date,
		Published:   req.Published,
	}
}

// updateNewsRequest is the PUT /news/{postId} body. Absent fields keep
// their stored value.
type updateNewsRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=500"`
	Text        *string `json:"text"`
	Credits     *string `json:"credits"`
	PublishDate *string `json:"publishDate" validate:"omitnil,newsdate"`
	Published   *bool   `json:"published"`
}

// Bind implements render.Binder.
func (req *updateNewsRequest) Bind(r *http.Request) error {
	return inputval.Struct(req)
}

// update converts the validated request into a field-by-field update.
func (req *updateNewsRequest) update() models.NewsPostUpdate {
	u := models.NewsPostUpdate{
		Title:     req.Title,
		Text:      req.Text,
		Credits:   req.Credits,
		Published: req.Published,
	}
	if req.PublishDate != nil {
		date, _ := inputval.ParseDate(*req.PublishDate)
		u.PublishDate = &date
	}
	return u
}
