//go:build !windows

package locate

import "errors"

var errNoSteamPath = errors.New("Steam path is not available")

// RegistrySteamPath always fails outside of Windows.
func RegistrySteamPath() (string, error) {
	return "", errNoSteamPath
}
