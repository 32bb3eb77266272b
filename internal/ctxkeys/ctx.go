package ctxkeys

import (
	"context"

	"github.com/csshost/csshost/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey    contextKey = "user"
	ProfileKey contextKey = "profile"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func Profile(ctx context.Context) *model.Profile {
	profile, _ := ctx.Value(ProfileKey).(*model.Profile)
	return profile
}

func WithProfile(ctx context.Context, profile *model.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

// OwnerID returns the owner namespace for the request: the authenticated
// user's id, or the anonymous sentinel when there is no session.
func OwnerID(ctx context.Context) string {
	if user := User(ctx); user != nil {
		return user.ID
	}
	return model.OwnerAnonymous
}
