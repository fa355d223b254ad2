package googleauth

import (
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// RequiredScopes is everything the client asks for: identity plus calendar
// read/write. A login is only accepted when the granted scope string covers
// all of these.
//
//nolint:gochecknoglobals //shared constant
var RequiredScopes = []string{
	"openid",
	"email",
	"profile",
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/calendar.readonly",
}

// scopeAliases maps short OIDC scope names to the long userinfo form Google
// reports them as in the granted scope string.
//
//nolint:gochecknoglobals //shared constant
var scopeAliases = map[string]string{
	"email":   "https://www.googleapis.com/auth/userinfo.email",
	"profile": "https://www.googleapis.com/auth/userinfo.profile",
}

func Config(clientID string, redirectURL string) *oauth2.Config {
	//nolint:exhaustruct //no client secret in the implicit flow
	return &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURL,
		Scopes:      RequiredScopes,
		Endpoint:    google.Endpoint,
	}
}

// AuthURL builds the implicit-flow authorization URL. The redirect delivers
// the access token, expiry and granted scopes straight to the callback, there
// is no code exchange and no client secret involved.
func AuthURL(clientID string, redirectURL string) string {
	cfg := Config(clientID, redirectURL)

	query := url.Values{}
	query.Set("client_id", cfg.ClientID)
	query.Set("redirect_uri", cfg.RedirectURL)
	query.Set("response_type", "token")
	query.Set("prompt", "consent")
	query.Set("scope", strings.Join(cfg.Scopes, " "))

	return cfg.Endpoint.AuthURL + "?" + query.Encode()
}

// HasGrantedScopes reports whether the space-separated granted scope string
// is a superset of RequiredScopes.
func HasGrantedScopes(granted string) bool {
	grantedSet := map[string]bool{}
	for _, scope := range strings.Fields(granted) {
		grantedSet[scope] = true
	}

	for _, scope := range RequiredScopes {
		if grantedSet[scope] {
			continue
		}

		if alias, ok := scopeAliases[scope]; ok && grantedSet[alias] {
			continue
		}

		return false
	}

	return true
}
