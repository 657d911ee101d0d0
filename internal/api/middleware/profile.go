package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// ProfileHeader carries the caller's profile id.
const ProfileHeader = "X-Profile-ID"

const profileIDKey = "profileID"

var profilePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidProfile reports whether id is an acceptable profile id.
func ValidProfile(id string) bool {
	return profilePattern.MatchString(id)
}

// ProfileMiddleware requires a well-formed profile header and stores it in
// the context.
func ProfileMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ProfileHeader)
		if !ValidProfile(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing or invalid " + ProfileHeader})
			return
		}
		c.Set(profileIDKey, id)
		c.Next()
	}
}

// ProfileFromContext returns the profile set by ProfileMiddleware.
func ProfileFromContext(c *gin.Context) (string, bool) {
	value, ok := c.Get(profileIDKey)
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}
