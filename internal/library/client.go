// Package library fetches the games owned by a Steam account from the
// Steam Web API.
package library

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
)

const (
	DefaultBaseURL = "http://api.steampowered.com"

	ownedGamesPath = "/IPlayerService/GetOwnedGames/v0001/"
)

// IDResolver supplies a Steam ID when the caller did not pass one.
type IDResolver func() (string, error)

// Client calls GetOwnedGames and caches the result per username for the
// lifetime of the Client.
type Client struct {
	key     string
	baseURL string
	http    *http.Client

	mutex *sync.Mutex
	cache map[string][]Game
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient returns a Client for the given Web API key. An empty key is
// allowed; OwnedGames then fails without touching the network.
func NewClient(steamKey string, options ...Option) *Client {
	c := &Client{
		key:     strings.TrimSpace(steamKey),
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
		mutex:   &sync.Mutex{},
		cache:   make(map[string][]Game),
	}

	for _, o := range options {
		o(c)
	}

	return c
}

// HasKey reports whether a Web API key was configured.
func (o *Client) HasKey() bool {
	return len(o.key) > 0
}

// OwnedGames returns the games owned by steamID. If steamID is empty the
// resolver is asked for one. Results are cached by username, so a
// second call for the same username never reaches the network.
func (o *Client) OwnedGames(ctx context.Context, username string, steamID string, resolve IDResolver) ([]Game, error) {
	o.mutex.Lock()
	cached, ok := o.cache[username]
	o.mutex.Unlock()
	if ok {
		return cached, nil
	}

	if !o.HasKey() {
		return nil, steamerr.NoSteamKey()
	}

	if len(strings.TrimSpace(steamID)) == 0 && resolve != nil {
		var err error
		steamID, err = resolve()
		if err != nil {
			return nil, err
		}
	}

	if len(strings.TrimSpace(steamID)) == 0 {
		return nil, steamerr.NoSteamID()
	}

	games, err := o.fetch(ctx, steamID)
	if err != nil {
		return nil, err
	}

	o.mutex.Lock()
	o.cache[username] = games
	o.mutex.Unlock()

	return games, nil
}

// Forget drops the cached games for username.
func (o *Client) Forget(username string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	delete(o.cache, username)
}

func (o *Client) fetch(ctx context.Context, steamID string) ([]Game, error) {
	values := url.Values{}
	values.Set("steamid", steamID)
	values.Set("key", o.key)
	values.Set("include_appinfo", "1")
	values.Set("include_played_free_games", "1")
	values.Set("format", "json")

	reqURL := o.baseURL + ownedGamesPath + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, steamerr.Unexpected("failed to create owned games request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, steamerr.NetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, steamerr.Unexpected(fmt.Sprintf("owned games request returned status %d", resp.StatusCode), nil)
	}

	var payload ownedGamesResponse
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		return nil, steamerr.Unexpected("failed to decode owned games response", err)
	}

	if payload.Response == nil {
		return nil, steamerr.Unexpected("owned games response has no 'response' object", nil)
	}

	games := payload.Response.Games
	if games == nil {
		games = []Game{}
	}

	return games, nil
}
