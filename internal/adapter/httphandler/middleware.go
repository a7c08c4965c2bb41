package httphandler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	ProfileCookie = "storefront_profile"
	profileMaxAge = 365 * 24 * time.Hour
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

type profileKey struct{}

// Profile binds the request to a storefront profile kept in a cookie,
// issuing a new profile when the cookie is absent or malformed.
func Profile(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		profile := ""
		if c, err := r.Cookie(ProfileCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				profile = id.String()
			}
		}

		if profile == "" {
			profile = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ProfileCookie,
				Value:    profile,
				Path:     "/",
				MaxAge:   int(profileMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			slog.Debug("profile issued", "op", "Profile", "profile", profile)
		}

		ctx := context.WithValue(r.Context(), profileKey{}, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

// ProfileFrom returns the profile bound by [Profile].
func ProfileFrom(ctx context.Context) string {
	profile, _ := ctx.Value(profileKey{}).(string)
	return profile
}
