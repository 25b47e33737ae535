// Package account recovers the Steam ID of the account steamcmd last
// logged into from steamcmd's config.vdf.
package account

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
	"github.com/stephen-fox/steamcmdw/internal/vdf"
)

const (
	configDirName  = "config"
	configFileName = "config.vdf"
	steamIDKey     = "SteamID"
)

// AccountsPath is the path to the accounts object in config.vdf.
var AccountsPath = []string{"InstallConfigStore", "Software", "Valve", "Steam", "Accounts"}

// ConfigPath returns the path to config.vdf inside a steamcmd data
// directory.
func ConfigPath(dataDirPath string) string {
	return filepath.Join(dataDirPath, configDirName, configFileName)
}

// SteamID returns the Steam ID of the first account listed in the data
// directory's config.vdf. Only one account is expected; additional
// accounts are ignored.
func SteamID(dataDirPath string) (string, error) {
	if len(strings.TrimSpace(dataDirPath)) == 0 {
		return "", steamerr.MissingDataDir()
	}

	configPath := ConfigPath(dataDirPath)

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return "", steamerr.NotFound("Failed to read Steam config file '"+configPath+"'", err)
	}

	tree, err := vdf.Decode(string(raw))
	if err != nil {
		return "", err
	}

	return FromTree(tree)
}

// FromTree extracts the first account's Steam ID from a decoded
// config.vdf.
func FromTree(tree *vdf.Tree) (string, error) {
	accounts, ok := tree.Lookup(AccountsPath...)
	if !ok {
		return "", steamerr.ParseError("Steam config does not contain "+strings.Join(AccountsPath, "."), nil)
	}

	keys := accounts.Keys()
	if len(keys) == 0 {
		return "", steamerr.ParseError("Steam config does not list any accounts", nil)
	}

	first, ok := accounts.Child(keys[0])
	if !ok {
		return "", steamerr.ParseError("Steam account '"+keys[0]+"' is not an object", nil)
	}

	id, ok := first.String(steamIDKey)
	if !ok || len(strings.TrimSpace(id)) == 0 {
		return "", steamerr.ParseError("Steam account '"+keys[0]+"' has no "+steamIDKey, nil)
	}

	return id, nil
}
