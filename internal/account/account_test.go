package account

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
	"github.com/stephen-fox/steamcmdw/internal/vdf"
)

const singleAccount = `"InstallConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"Accounts"
				{
					"76561198000000000"
					{
						"SteamID"		"76561198000000000"
					}
				}
			}
		}
	}
}
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0700))
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte(contents), 0600))

	return dir
}

func TestSteamID(t *testing.T) {
	dir := writeConfig(t, singleAccount)

	id, err := SteamID(dir)
	require.NoError(t, err)
	assert.Equal(t, "76561198000000000", id)
}

func TestSteamID_FirstAccountWins(t *testing.T) {
	dir := writeConfig(t, `"InstallConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"Accounts"
				{
					"zzz"
					{
						"SteamID"		"2"
					}
					"aaa"
					{
						"SteamID"		"1"
					}
				}
			}
		}
	}
}
`)

	id, err := SteamID(dir)
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestSteamID_MissingFile(t *testing.T) {
	_, err := SteamID(t.TempDir())
	assert.True(t, steamerr.IsNotFound(err))
}

func TestSteamID_EmptyDataDir(t *testing.T) {
	_, err := SteamID("")
	assert.True(t, steamerr.IsConfiguration(err))
}

func TestSteamID_Malformed(t *testing.T) {
	dir := writeConfig(t, "\"InstallConfigStore\"\n{\n")

	_, err := SteamID(dir)
	assert.True(t, steamerr.IsParseError(err))
}

func TestFromTree_MissingPath(t *testing.T) {
	tree, err := vdf.Decode(`"InstallConfigStore" { "Software" { } }`)
	require.NoError(t, err)

	_, err = FromTree(tree)
	assert.True(t, steamerr.IsParseError(err))
}

func TestFromTree_NoAccountsOrNoID(t *testing.T) {
	accounts := vdf.NewTree()
	steam := vdf.NewTree()
	steam.Set("Accounts", accounts)
	valve := vdf.NewTree()
	valve.Set("Steam", steam)
	software := vdf.NewTree()
	software.Set("Valve", valve)
	store := vdf.NewTree()
	store.Set("Software", software)
	root := vdf.NewTree()
	root.Set("InstallConfigStore", store)

	_, err := FromTree(root)
	assert.True(t, steamerr.IsParseError(err))

	accounts.Set("someone", vdf.NewTree())

	_, err = FromTree(root)
	assert.True(t, steamerr.IsParseError(err))
}
