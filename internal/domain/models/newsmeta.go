// internal/domain/models/newsmeta.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LatestNewsPostKey is the _id of the single news_meta document that tracks
// the most recently published post.
const LatestNewsPostKey = "latest_news_post"

// LatestNewsPointer is the stored "last news post id" and its publish date.
// It moves whenever a post is saved with published=true and is never
// cleared when that post is deleted.
type LatestNewsPointer struct {
	Key         string             `bson:"_id" json:"-"`
	PostID      primitive.ObjectID `bson:"post_id" json:"postId"`
	PublishDate time.Time          `bson:"publish_date" json:"publishDate"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// IsZero reports whether no post has ever been published.
func (p LatestNewsPointer) IsZero() bool {
	return p.PostID.IsZero()
}

// PostIDHex returns the pointer as the string stored on users, or "" when
// nothing has been published yet.
func (p LatestNewsPointer) PostIDHex() string {
	if p.IsZero() {
		return ""
	}
	return p.PostID.Hex()
}
