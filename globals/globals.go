package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(Getenv("JWT_SECRET", "change_me_in_production"))

// Getenv reads an environment variable with a fallback default.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const EmailKey ContextKey = "email"
const RoleKey ContextKey = "role"

var Ctx = context.Background()
