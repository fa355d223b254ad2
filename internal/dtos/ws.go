package dtos

import (
	"time"
)

type SubscribeMessageDto struct {
	Subject string `json:"subject"`
}

func (dto SubscribeMessageDto) Topic() string {
	return dto.Subject
}

func (dto SubscribeMessageDto) Validate() (bool, map[string]string) {
	return true, make(map[string]string)
}

// StateMessageDto is the snapshot pushed to websocket subscribers whenever
// the session store changes.
type StateMessageDto struct {
	LoggedIn    bool       `json:"loggedIn"`
	IsLoading   bool       `json:"isLoading"`
	EventCount  int        `json:"eventCount"`
	Error       string     `json:"error,omitempty"`
	LastRefresh *time.Time `json:"lastRefresh,omitempty"`
}
