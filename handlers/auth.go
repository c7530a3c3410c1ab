package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const callerIDKey = "caller_id"

// IdentityResolver maps a bearer token to a caller id
type IdentityResolver interface {
	ResolveCaller(ctx context.Context, token string) (userID string, ok bool)
}

// BearerIdentity trusts the token as the caller id. It is meant for
// deployments where an upstream identity provider has already verified it.
type BearerIdentity struct{}

func (BearerIdentity) ResolveCaller(_ context.Context, token string) (string, bool) {
	token = strings.TrimSpace(token)
	return token, token != ""
}

// StaticTokens resolves callers from a fixed token to user id table
type StaticTokens map[string]string

func (t StaticTokens) ResolveCaller(_ context.Context, token string) (string, bool) {
	userID, ok := t[strings.TrimSpace(token)]
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// NewIdentityResolver picks StaticTokens when a table is configured
func NewIdentityResolver(tokens map[string]string) IdentityResolver {
	if len(tokens) > 0 {
		return StaticTokens(tokens)
	}
	return BearerIdentity{}
}

// Identity resolves the Authorization header and stores the caller id.
// It never aborts; handlers that need a caller check CallerID.
func Identity(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if ok {
			if userID, found := resolver.ResolveCaller(c.Request.Context(), token); found {
				c.Set(callerIDKey, userID)
			}
		}
		c.Next()
	}
}

// CallerID returns the resolved caller, or "" when the request is anonymous
func CallerID(c *gin.Context) string {
	return c.GetString(callerIDKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// describeResolver names the resolver for startup logs
func describeResolver(r IdentityResolver) string {
	switch v := r.(type) {
	case StaticTokens:
		return fmt.Sprintf("static tokens (%d)", len(v))
	case BearerIdentity:
		return "bearer"
	default:
		return fmt.Sprintf("%T", r)
	}
}
