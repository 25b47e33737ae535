package steamw

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/stephen-fox/steamutil/locations"
)

const (
	// steamID64Base is the 64-bit ID of account 0 for an individual
	// account in the public universe.
	steamID64Base uint64 = 76561197960265728

	loginUsersRelPath = "config/loginusers.vdf"
)

// LocalAccount is an account that has signed in to the Steam client on
// this machine.
type LocalAccount struct {
	SteamID64   string
	AccountID   string
	AccountName string
	PersonaName string
	MostRecent  bool
	DataDirPath string
}

// LoginUser is an entry of the Steam client's loginusers.vdf.
type LoginUser struct {
	AccountName string
	PersonaName string
	MostRecent  bool
}

// SteamID64 converts a 32-bit account ID to a 64-bit Steam ID.
func SteamID64(accountID string) (string, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(accountID), 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid account id %q: %w", accountID, err)
	}

	return strconv.FormatUint(steamID64Base+id, 10), nil
}

// AccountID converts a 64-bit Steam ID to a 32-bit account ID.
func AccountID(steamID64 string) (string, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(steamID64), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid steam id %q: %w", steamID64, err)
	}

	if id < steamID64Base || id-steamID64Base > 0xFFFFFFFF {
		return "", fmt.Errorf("steam id %q is not an individual account", steamID64)
	}

	return strconv.FormatUint(id-steamID64Base, 10), nil
}

// ParseLoginUsers reads loginusers.vdf, keyed by 64-bit Steam ID.
func ParseLoginUsers(r io.Reader) (map[string]LoginUser, error) {
	parsed, err := vdf.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse login users: %w", err)
	}

	users := make(map[string]LoginUser)

	root, ok := lookupMap(parsed, "users")
	if !ok {
		return users, nil
	}

	for steamID, raw := range root {
		fields, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		users[steamID] = LoginUser{
			AccountName: lookupString(fields, "AccountName"),
			PersonaName: lookupString(fields, "PersonaName"),
			MostRecent:  lookupString(fields, "MostRecent") == "1",
		}
	}

	return users, nil
}

// LocalAccounts lists the accounts known to the local Steam client,
// sorted by Steam ID.
func LocalAccounts() ([]LocalAccount, error) {
	rootDirPath, idsToDirPaths, err := clientDirs()
	if err != nil {
		return nil, fmt.Errorf("failed to find steam client data - %w", err)
	}

	return localAccounts(rootDirPath, idsToDirPaths)
}

// clientDirs returns the Steam client's data directory and its
// userdata/<accountId> directories keyed by account ID.
var clientDirs = func() (string, map[string]string, error) {
	verifier, err := locations.NewDataVerifier()
	if err != nil {
		return "", nil, err
	}

	idsToDirPaths, err := verifier.UserIdsToDataDirPaths()
	if err != nil {
		return "", nil, err
	}

	return verifier.RootDirPath(), idsToDirPaths, nil
}

func localAccounts(rootDirPath string, idsToDirPaths map[string]string) ([]LocalAccount, error) {
	users := make(map[string]LoginUser)

	f, err := os.Open(filepath.Join(rootDirPath, filepath.FromSlash(loginUsersRelPath)))
	if err == nil {
		users, err = ParseLoginUsers(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to open login users file - %w", err)
	}

	var accounts []LocalAccount

	for accountID, dirPath := range idsToDirPaths {
		steamID, err := SteamID64(accountID)
		if err != nil {
			continue
		}

		user := users[steamID]

		accounts = append(accounts, LocalAccount{
			SteamID64:   steamID,
			AccountID:   accountID,
			AccountName: user.AccountName,
			PersonaName: user.PersonaName,
			MostRecent:  user.MostRecent,
			DataDirPath: dirPath,
		})
	}

	sort.Slice(accounts, func(i, j int) bool {
		a, _ := strconv.ParseUint(accounts[i].SteamID64, 10, 64)
		b, _ := strconv.ParseUint(accounts[j].SteamID64, 10, 64)
		return a < b
	})

	return accounts, nil
}

func lookupMap(m map[string]interface{}, name string) (map[string]interface{}, bool) {
	for k, v := range m {
		if strings.EqualFold(k, name) {
			child, ok := v.(map[string]interface{})
			return child, ok
		}
	}

	return nil, false
}

func lookupString(m map[string]interface{}, name string) string {
	for k, v := range m {
		if strings.EqualFold(k, name) {
			s, _ := v.(string)
			return s
		}
	}

	return ""
}
