package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// IdentityProvider resolves the caller of a request to a stable user
// identifier. Credentials are someone else's problem; the core only
// needs an opaque id.
type IdentityProvider interface {
	UserID(r *http.Request) (int64, error)
}

var errNoIdentity = errors.New("no identity on request")

// HeaderIdentity trusts the authenticating gateway in front of this
// service to set the user id header.
type HeaderIdentity struct {
	Header string
}

// DefaultHeaderIdentity reads X-User-ID.
func DefaultHeaderIdentity() HeaderIdentity {
	return HeaderIdentity{Header: "X-User-ID"}
}

func (h HeaderIdentity) UserID(r *http.Request) (int64, error) {
	raw := r.Header.Get(h.Header)
	if raw == "" {
		return 0, errNoIdentity
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errNoIdentity
	}
	return id, nil
}

const userIDKey = "userID"

// identityMiddleware resolves the caller once and threads the user id
// through the request context for every handler.
func identityMiddleware(provider IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := provider.UserID(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthenticated",
			})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
