package steamw

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginUsers = `"users"
{
	"76561197960287930"
	{
		"AccountName"		"gaben"
		"PersonaName"		"Rabscuttle"
		"RememberPassword"		"1"
		"MostRecent"		"1"
	}
	"76561197960265729"
	{
		"AccountName"		"other"
		"PersonaName"		"Other Person"
		"mostrecent"		"0"
	}
}
`

func TestSteamID64(t *testing.T) {
	id, err := SteamID64("22202")
	require.NoError(t, err)
	assert.Equal(t, "76561197960287930", id)

	id, err = SteamID64("0")
	require.NoError(t, err)
	assert.Equal(t, "76561197960265728", id)

	_, err = SteamID64("nope")
	assert.Error(t, err)

	_, err = SteamID64("4294967296")
	assert.Error(t, err)
}

func TestAccountID(t *testing.T) {
	id, err := AccountID("76561197960287930")
	require.NoError(t, err)
	assert.Equal(t, "22202", id)

	_, err = AccountID("12")
	assert.Error(t, err)

	_, err = AccountID("")
	assert.Error(t, err)
}

func TestParseLoginUsers(t *testing.T) {
	users, err := ParseLoginUsers(strings.NewReader(loginUsers))
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, LoginUser{
		AccountName: "gaben",
		PersonaName: "Rabscuttle",
		MostRecent:  true,
	}, users["76561197960287930"])

	assert.Equal(t, "other", users["76561197960265729"].AccountName)
	assert.False(t, users["76561197960265729"].MostRecent)
}

func TestParseLoginUsers_NoUsers(t *testing.T) {
	users, err := ParseLoginUsers(strings.NewReader("\"other\"\n{\n}\n"))
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLocalAccounts(t *testing.T) {
	rootDirPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootDirPath, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(rootDirPath, "config", "loginusers.vdf"), []byte(loginUsers), 0644))

	accounts, err := localAccounts(rootDirPath, map[string]string{
		"22202":   "/steam/userdata/22202",
		"1":       "/steam/userdata/1",
		"333":     "/steam/userdata/333",
		"invalid": "/steam/userdata/invalid",
	})
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	assert.Equal(t, "76561197960265729", accounts[0].SteamID64)
	assert.Equal(t, "other", accounts[0].AccountName)

	assert.Equal(t, "333", accounts[1].AccountID)
	assert.Empty(t, accounts[1].AccountName)

	assert.Equal(t, LocalAccount{
		SteamID64:   "76561197960287930",
		AccountID:   "22202",
		AccountName: "gaben",
		PersonaName: "Rabscuttle",
		MostRecent:  true,
		DataDirPath: "/steam/userdata/22202",
	}, accounts[2])
}

func TestLocalAccounts_NoLoginUsersFile(t *testing.T) {
	accounts, err := localAccounts(t.TempDir(), map[string]string{
		"5": "/steam/userdata/5",
	})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "76561197960265733", accounts[0].SteamID64)
}

func TestLocalAccounts_ClientDirs(t *testing.T) {
	rootDirPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootDirPath, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(rootDirPath, "config", "loginusers.vdf"), []byte(loginUsers), 0644))

	original := clientDirs
	defer func() { clientDirs = original }()

	clientDirs = func() (string, map[string]string, error) {
		return rootDirPath, map[string]string{"22202": filepath.Join(rootDirPath, "userdata", "22202")}, nil
	}

	accounts, err := LocalAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "gaben", accounts[0].AccountName)

	clientDirs = func() (string, map[string]string, error) {
		return "", nil, errors.New("steam is not installed")
	}

	_, err = LocalAccounts()
	assert.ErrorContains(t, err, "steam is not installed")
}
