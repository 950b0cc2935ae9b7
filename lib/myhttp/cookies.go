package myhttp

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// Flow-secret cookies must outlive the roundtrip to the identity
	// provider but not much more than that.
	FlowCookieTTL = 10 * time.Minute

	defaultSessionTTL = 30 * 24 * time.Hour
)

// WriteFlowCookie stores a short-lived secret that is scoped to a single
// authorization attempt.
func WriteFlowCookie(w http.ResponseWriter, name string, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(FlowCookieTTL.Seconds()),
		Secure:   IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// WriteSessionCookie stores the session credential. The cookie is never
// readable from script. When the provider did not indicate a validity
// window, a 30 day lifetime applies.
func WriteSessionCookie(w http.ResponseWriter, name string, value string, expiresIn int) {
	maxAge := int(defaultSessionTTL.Seconds())
	if expiresIn > 0 {
		maxAge = expiresIn
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func ReadCookie(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", fmt.Errorf("cookie %s not present: %s", name, err)
	}

	return cookie.Value, nil
}

func DeleteCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
