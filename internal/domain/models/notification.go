// internal/domain/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types used by this service.
const (
	NotificationNewStuff = "NEW_STUFF"
)

// Notification is one entry in a user's notification list.
type Notification struct {
	ID        string         `bson:"id" json:"id"`
	Type      string         `bson:"type" json:"type"`
	Data      map[string]any `bson:"data,omitempty" json:"data"`
	Seen      bool           `bson:"seen" json:"seen"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
}

// Notifications is a user's ordered notification list.
type Notifications []Notification

// Add appends a new notification with a fresh id.
func (ns *Notifications) Add(typ string, data map[string]any, seen bool) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Data:      data,
		Seen:      seen,
		CreatedAt: time.Now().UTC(),
	}
	*ns = append(*ns, n)
	return n
}

// IndexOf returns the index of the first notification of the given type, or -1.
func (ns Notifications) IndexOf(typ string) int {
	for i := range ns {
		if ns[i].Type == typ {
			return i
		}
	}
	return -1
}

// RemoveFirst removes the first notification of the given type.
// It reports whether one was removed. Later matches are left in place.
func (ns *Notifications) RemoveFirst(typ string) bool {
	i := ns.IndexOf(typ)
	if i < 0 {
		return false
	}
	*ns = append((*ns)[:i], (*ns)[i+1:]...)
	return true
}

// Replace removes the first notification of the given type (if any) and then
// appends a new one, so repeated calls keep at most one entry of that type.
func (ns *Notifications) Replace(typ string, data map[string]any, seen bool) Notification {
	ns.RemoveFirst(typ)
	return ns.Add(typ, data, seen)
}

// CountType returns how many notifications have the given type.
func (ns Notifications) CountType(typ string) int {
	c := 0
	for i := range ns {
		if ns[i].Type == typ {
			c++
		}
	}
	return c
}
