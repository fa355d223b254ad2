package main

import (
	"fmt"
	"net/http"
	"time"

	httptools "github.com/xdoubleu/essentia/v2/pkg/communication/httptools"

	"aical.dev/aical/internal/dtos"
	"aical.dev/aical/internal/models"
	"aical.dev/aical/pkg/googleauth"
)

func (app *Application) authRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(fmt.Sprintf("GET /%s/auth/url", prefix), app.authURLHandler)
	mux.HandleFunc(
		fmt.Sprintf("POST /%s/auth/callback", prefix),
		app.authCallbackHandler,
	)
	mux.HandleFunc(fmt.Sprintf("GET /%s/auth/signout", prefix), app.signOutHandler)
}

type configResponse struct {
	OAuthConfigured     bool `json:"oauthConfigured"`
	AssistantConfigured bool `json:"assistantConfigured"`
}

func (app *Application) configHandler(w http.ResponseWriter, _ *http.Request) {
	hasOAuth, hasAssistant := app.config.Configured()
	app.writeJSON(w, http.StatusOK, configResponse{
		OAuthConfigured:     hasOAuth,
		AssistantConfigured: hasAssistant,
	})
}

func (app *Application) authURLHandler(w http.ResponseWriter, _ *http.Request) {
	hasOAuth, _ := app.config.Configured()
	if !hasOAuth {
		app.writeError(w, http.StatusServiceUnavailable, "configuration_missing",
			"no OAuth client id configured")
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]string{
		"url": googleauth.AuthURL(
			app.config.GoogleClientID,
			app.config.OAuthRedirectURL,
		),
	})
}

// authCallbackHandler accepts what the OAuth redirect delivered. The granted
// scope string must cover every requested scope before the login is
// accepted.
func (app *Application) authCallbackHandler(w http.ResponseWriter, r *http.Request) {
	var callbackDto dtos.CallbackDto

	err := httptools.ReadForm(r, &callbackDto)
	if err != nil {
		httptools.RedirectWithError(w, r, "/", err)
		return
	}

	if ok, errs := callbackDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	if !googleauth.HasGrantedScopes(callbackDto.Scope) {
		app.writeError(w, http.StatusForbidden, "insufficient_scope",
			"not all requested scopes were granted")
		return
	}

	profile, err := app.userinfo.FetchProfile(r.Context(), callbackDto.AccessToken)
	if err != nil {
		httptools.RedirectWithError(w, r, "/", err)
		return
	}

	app.services.Session.SetLoginData(
		callbackDto.AccessToken,
		time.Duration(callbackDto.ExpiresIn)*time.Second,
		models.UserProfileFromGoogle(*profile),
	)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *Application) signOutHandler(w http.ResponseWriter, r *http.Request) {
	app.services.Session.Logout()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
