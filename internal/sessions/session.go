package sessions

import "time"

// Session maps an opaque token to a user id for the lifetime of a login.
type Session struct {
	Token     string    `bson:"_id" json:"token"`
	UserID    string    `bson:"userId" json:"userId"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
