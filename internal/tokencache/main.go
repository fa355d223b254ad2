// Package tokencache persists the session across restarts: three keys in a
// diskv store, the equivalent of the browser client's localStorage entries.
package tokencache

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"aical.dev/aical/internal/models"
)

const (
	keyAccessToken = "access_token"
	keyTokenExpiry = "token_expiry"
	keyProfile     = "user_profile"
)

type Cache struct {
	d *diskv.Diskv
}

func New(basePath string) *Cache {
	//nolint:exhaustruct //other options are optional
	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024,
		}),
	}
}

// Save persists the token, its absolute expiry and the profile. As far as the
// store allows this is all-or-nothing: the first failed write clears whatever
// was already written and the error is returned to the caller, which treats
// it as a warning rather than a failed login.
func (cache *Cache) Save(
	token string,
	expiresIn time.Duration,
	profile models.UserProfile,
) error {
	expiry := time.Now().Add(expiresIn).UnixMilli()

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	writes := []struct {
		key   string
		value []byte
	}{
		{keyAccessToken, []byte(token)},
		{keyTokenExpiry, []byte(strconv.FormatInt(expiry, 10))},
		{keyProfile, profileJSON},
	}

	for _, write := range writes {
		if err = cache.d.Write(write.key, write.value); err != nil {
			cache.Clear()
			return err
		}
	}

	return nil
}

// Load returns the last-saved session, or the zero session when nothing was
// saved or any of the stored fields is missing or corrupt. A corrupt cache is
// "no session", never an error.
func (cache *Cache) Load() models.Session {
	token, err := cache.d.Read(keyAccessToken)
	if err != nil || len(token) == 0 {
		return models.Session{}
	}

	rawExpiry, err := cache.d.Read(keyTokenExpiry)
	if err != nil {
		return models.Session{}
	}

	expiry, err := strconv.ParseInt(string(rawExpiry), 10, 64)
	if err != nil {
		return models.Session{}
	}

	rawProfile, err := cache.d.Read(keyProfile)
	if err != nil {
		return models.Session{}
	}

	var profile models.UserProfile
	if err = json.Unmarshal(rawProfile, &profile); err != nil {
		return models.Session{}
	}

	return models.Session{
		AccessToken: string(token),
		TokenExpiry: expiry,
		Profile:     &profile,
	}
}

func (cache *Cache) Clear() {
	for _, key := range []string{keyAccessToken, keyTokenExpiry, keyProfile} {
		//nolint:errcheck //erasing a missing key is fine
		cache.d.Erase(key)
	}
}
