package domain

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the verified identity carried by an access token.
type Claims struct {
	Subject   uuid.UUID
	Email     string
	Role      Role
	Audience  string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
