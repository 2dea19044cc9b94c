package models

import "time"

// Group is the per-chat-group record. It is upserted every time a group
// message is observed; Active gates the economy commands.
type Group struct {
	GroupID     string    `bson:"group_id"`
	Name        string    `bson:"name"`
	MemberCount int       `bson:"member_count"`
	Admins      []string  `bson:"admins"`
	Active      bool      `bson:"active"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// IsAdmin reports whether the user id is in the group's admin snapshot.
func (g *Group) IsAdmin(userID string) bool {
	for _, id := range g.Admins {
		if id == userID {
			return true
		}
	}
	return false
}
