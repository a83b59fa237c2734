// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/AlCa38/habitica/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the current user's username, ObjectID and a found flag.
// Anonymous requests return "", NilObjectID, false.
func UserCtx(r *http.Request) (name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.ID.IsZero() {
		return "", primitive.NilObjectID, false
	}
	return user.Username, user.ID, true
}

// IsContributorAdmin reports whether the current request's user has the
// contributor admin flag. Anonymous callers are never admins.
func IsContributorAdmin(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.IsContributorAdmin()
}

// ActorID returns the current user's id for audit records, or nil.
func ActorID(r *http.Request) *primitive.ObjectID {
	_, id, ok := UserCtx(r)
	if !ok {
		return nil
	}
	return &id
}
