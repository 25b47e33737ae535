package locate

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

var errNoSteamPath = errors.New("Steam path is not available")

// RegistrySteamPath reads HKCU\Software\Valve\Steam\SteamPath.
func RegistrySteamPath() (string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, `Software\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		return "", errors.New("Failed to open Steam registry key - " + err.Error())
	}
	defer k.Close()

	steamPath, _, err := k.GetStringValue("SteamPath")
	if err != nil {
		return "", errors.New("Failed to query SteamPath - " + err.Error())
	}

	return steamPath, nil
}
