package dtos

// CallbackDto carries what the OAuth redirect delivered: the access token,
// its lifetime in seconds and the granted scope string.
type CallbackDto struct {
	AccessToken string `schema:"accessToken"`
	ExpiresIn   int64  `schema:"expiresIn"`
	Scope       string `schema:"scope"`
}

func (dto *CallbackDto) Validate() (bool, map[string]string) {
	errs := make(map[string]string)

	if dto.AccessToken == "" {
		errs["accessToken"] = "must be provided"
	}

	if dto.ExpiresIn <= 0 {
		errs["expiresIn"] = "must be a positive number of seconds"
	}

	return len(errs) == 0, errs
}
