package library

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
)

const ownedGamesBody = `{
	"response": {
		"game_count": 2,
		"games": [
			{"appid": 10, "name": "Counter-Strike", "playtime_forever": 42, "img_icon_url": "abc"},
			{"appid": 440, "name": "Team Fortress 2", "playtime_forever": 0, "playtime_2weeks": 5}
		]
	}
}`

func newServer(t *testing.T, hits *int32, gotQuery *url.Values, body string, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)

		if r.URL.Path != ownedGamesPath {
			http.NotFound(w, r)
			return
		}

		if gotQuery != nil {
			*gotQuery = r.URL.Query()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestOwnedGames(t *testing.T) {
	var hits int32
	var query url.Values
	server := newServer(t, &hits, &query, ownedGamesBody, http.StatusOK)

	c := NewClient("KEY", WithBaseURL(server.URL+"/"))

	games, err := c.OwnedGames(testContext(t), "u", "76561198000000000", nil)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, Game{AppID: 10, Name: "Counter-Strike", PlaytimeForever: 42, ImgIconURL: "abc"}, games[0])
	assert.Equal(t, 5, games[1].Playtime2Weeks)

	assert.Equal(t, "76561198000000000", query.Get("steamid"))
	assert.Equal(t, "KEY", query.Get("key"))
	assert.Equal(t, "1", query.Get("include_appinfo"))
	assert.Equal(t, "1", query.Get("include_played_free_games"))
	assert.Equal(t, "json", query.Get("format"))
}

func TestOwnedGames_CachedPerUsername(t *testing.T) {
	var hits int32
	server := newServer(t, &hits, nil, ownedGamesBody, http.StatusOK)

	c := NewClient("KEY", WithBaseURL(server.URL))
	ctx := testContext(t)

	first, err := c.OwnedGames(ctx, "u", "1", nil)
	require.NoError(t, err)

	second, err := c.OwnedGames(ctx, "u", "2", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Same(t, &first[0], &second[0])
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	c.Forget("u")

	_, err = c.OwnedGames(ctx, "u", "1", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestOwnedGames_MissingKey(t *testing.T) {
	var hits int32
	server := newServer(t, &hits, nil, ownedGamesBody, http.StatusOK)

	c := NewClient("  ", WithBaseURL(server.URL))

	for _, id := range []string{"", "76561198000000000"} {
		resolverCalled := false

		_, err := c.OwnedGames(testContext(t), "u", id, func() (string, error) {
			resolverCalled = true
			return "76561198000000000", nil
		})

		assert.True(t, steamerr.IsMissingSteamKey(err))
		assert.False(t, resolverCalled)
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestOwnedGames_ResolverUsedOnlyWithoutExplicitID(t *testing.T) {
	var hits int32
	var query url.Values
	server := newServer(t, &hits, &query, ownedGamesBody, http.StatusOK)

	c := NewClient("KEY", WithBaseURL(server.URL))

	_, err := c.OwnedGames(testContext(t), "a", "", func() (string, error) {
		return "from-resolver", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "from-resolver", query.Get("steamid"))

	_, err = c.OwnedGames(testContext(t), "b", "explicit", func() (string, error) {
		t.Error("Resolver should not be called when an ID is given")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit", query.Get("steamid"))
}

func TestOwnedGames_MissingSteamID(t *testing.T) {
	var hits int32
	server := newServer(t, &hits, nil, ownedGamesBody, http.StatusOK)

	c := NewClient("KEY", WithBaseURL(server.URL))

	_, err := c.OwnedGames(testContext(t), "u", "", nil)
	assert.True(t, steamerr.IsMissingSteamID(err))

	_, err = c.OwnedGames(testContext(t), "u", "", func() (string, error) {
		return "", nil
	})
	assert.True(t, steamerr.IsMissingSteamID(err))

	resolveErr := steamerr.NotFound("no config", errors.New("bla"))
	_, err = c.OwnedGames(testContext(t), "u", "", func() (string, error) {
		return "", resolveErr
	})
	assert.Same(t, resolveErr, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestOwnedGames_BadResponses(t *testing.T) {
	var hits int32

	for _, tc := range []struct {
		name   string
		body   string
		status int
	}{
		{name: "server error", body: "{}", status: http.StatusInternalServerError},
		{name: "forbidden", body: "", status: http.StatusForbidden},
		{name: "not json", body: "<html>", status: http.StatusOK},
		{name: "no response object", body: `{"nope": 1}`, status: http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			server := newServer(t, &hits, nil, tc.body, tc.status)
			c := NewClient("KEY", WithBaseURL(server.URL))

			games, err := c.OwnedGames(testContext(t), "u", "1", nil)
			assert.Nil(t, games)
			assert.Equal(t, steamerr.Unknown, steamerr.KindOf(err))
		})
	}
}

func TestOwnedGames_EmptyLibrary(t *testing.T) {
	var hits int32
	server := newServer(t, &hits, nil, `{"response": {}}`, http.StatusOK)

	c := NewClient("KEY", WithBaseURL(server.URL))

	games, err := c.OwnedGames(testContext(t), "u", "1", nil)
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestOwnedGames_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	c := NewClient("KEY", WithBaseURL(baseURL))

	_, err := c.OwnedGames(testContext(t), "u", "1", nil)
	assert.True(t, steamerr.IsNetworkError(err))
}
