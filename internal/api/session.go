package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvcrafter/internal/api/middleware"
	"cvcrafter/internal/editor"
)

// PrefersColorSchemeHeader is the client hint carrying the system color
// scheme.
const PrefersColorSchemeHeader = "Sec-CH-Prefers-Color-Scheme"

func prefersDark(r *http.Request) bool {
	v := strings.Trim(strings.TrimSpace(r.Header.Get(PrefersColorSchemeHeader)), `"`)
	return strings.EqualFold(v, "dark")
}

// openSession returns the caller's editor session. It writes the error
// response itself when no profile is present.
func openSession(c *gin.Context, m *editor.Manager) (*editor.Session, bool) {
	profile, ok := middleware.ProfileFromContext(c)
	if !ok {
		BadRequest(c, "missing profile")
		return nil, false
	}
	return m.Open(c.Request.Context(), profile, prefersDark(c.Request)), true
}
