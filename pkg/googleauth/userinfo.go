package googleauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httptools "github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
)

const DefaultUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type UserinfoClient struct {
	logger      *slog.Logger
	userinfoURL string
}

func NewUserinfoClient(logger *slog.Logger) *UserinfoClient {
	return NewUserinfoClientWithURL(logger, DefaultUserinfoURL)
}

// NewUserinfoClientWithURL exists so tests can point the client at a local
// server.
func NewUserinfoClientWithURL(
	logger *slog.Logger,
	userinfoURL string,
) *UserinfoClient {
	return &UserinfoClient{
		logger:      logger,
		userinfoURL: userinfoURL,
	}
}

func (client *UserinfoClient) FetchProfile(
	ctx context.Context,
	token string,
) (*Profile, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		client.userinfoURL,
		nil,
	)
	if err != nil {
		return nil, err
	}

	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"userinfo endpoint returned status %d",
			res.StatusCode,
		)
	}

	var profile Profile
	err = httptools.ReadJSON(res.Body, &profile)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}
