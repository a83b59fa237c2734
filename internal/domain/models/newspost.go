// internal/domain/models/newspost.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsPost is one announcement shown on the news page.
//
// Non-admins only ever see posts that are published and whose publish date
// has passed. Admins see drafts and scheduled posts too.
type NewsPost struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Text        string              `bson:"text" json:"text"` // Markdown, stored as sent
	Credits     string              `bson:"credits" json:"credits"`
	PublishDate time.Time           `bson:"publish_date" json:"publishDate"`
	Published   bool                `bson:"published" json:"published"`
	AuthorID    *primitive.ObjectID `bson:"author_id,omitempty" json:"author,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsVisibleAt reports whether a non-admin may see the post at time t.
func (p *NewsPost) IsVisibleAt(t time.Time) bool {
	return p.Published && !p.PublishDate.After(t)
}

// NewsPostUpdate lists every field an admin may change on an existing post.
// Nil fields are left untouched.
type NewsPostUpdate struct {
	Title       *string
	Text        *string
	Credits     *string
	PublishDate *time.Time
	Published   *bool
}

// Apply copies the set fields of u onto p.
func (u NewsPostUpdate) Apply(p *NewsPost) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Text != nil {
		p.Text = *u.Text
	}
	if u.Credits != nil {
		p.Credits = *u.Credits
	}
	if u.PublishDate != nil {
		p.PublishDate = *u.PublishDate
	}
	if u.Published != nil {
		p.Published = *u.Published
	}
}
