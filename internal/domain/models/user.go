// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the part of a player account this service reads and writes.
//
// NOTE:
//   - Authentication owns the rest of the account document; this struct
//     only declares the fields the news flows touch.
//   - APIKeyHash is never serialized to JSON.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username"`
	Role        string             `bson:"role,omitempty" json:"role,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled
	Contributor Contributor        `bson:"contributor" json:"contributor"`
	Flags       UserFlags          `bson:"flags" json:"flags"`
	APIKeyHash  string             `bson:"api_key_hash,omitempty" json:"-"`

	Notifications Notifications `bson:"notifications" json:"notifications"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Contributor holds community contribution flags.
type Contributor struct {
	Admin bool `bson:"admin" json:"admin"`
	Level int  `bson:"level,omitempty" json:"level,omitempty"`
}

// UserFlags holds per-user UI state.
type UserFlags struct {
	LastNewStuffRead string `bson:"last_new_stuff_read" json:"lastNewStuffRead"`
}

// IsContributorAdmin reports whether the user may manage news.
func (u *User) IsContributorAdmin() bool {
	return u != nil && u.Contributor.Admin
}
