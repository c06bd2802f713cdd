package models

import "time"

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"password,omitempty" bson:"password"`
	Role          []string  `json:"role" bson:"role"`
	EmailVerified bool      `json:"email_verified" bson:"email_verified"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// OrganizerApplication statuses.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

type OrganizerApplication struct {
	AppID        string    `json:"appid" bson:"appid"`
	UserID       string    `json:"userid" bson:"userid"`
	Organization string    `json:"organization" bson:"organization"`
	Website      string    `json:"website,omitempty" bson:"website,omitempty"`
	Reason       string    `json:"reason" bson:"reason"`
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	ReviewedAt   time.Time `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
}
