package models

import (
	"time"

	"aical.dev/aical/pkg/googleauth"
)

type UserProfile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	PictureURL string `json:"pictureUrl"`
}

func UserProfileFromGoogle(profile googleauth.Profile) UserProfile {
	return UserProfile{
		Name:       profile.Name,
		Email:      profile.Email,
		PictureURL: profile.Picture,
	}
}

// Session holds the authenticated state. The three fields are set together
// and cleared together: AccessToken is present exactly when TokenExpiry and
// Profile are.
type Session struct {
	AccessToken string
	TokenExpiry int64 // epoch milliseconds
	Profile     *UserProfile
}

func (s Session) IsZero() bool {
	return s.AccessToken == ""
}

func (s Session) IsExpired(now time.Time) bool {
	return !s.IsZero() && now.UnixMilli() > s.TokenExpiry
}
