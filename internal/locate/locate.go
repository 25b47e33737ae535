package locate

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
)

const (
	Windows Platform = "windows"
	Darwin  Platform = "darwin"
	Linux   Platform = "linux"

	bundledVar = "{bundled}"
	steamVar   = "{steam}"
)

const (
	missingWindows = "Could not find steamcmd.exe! Please set it in init or download it from https://steamcdn-a.akamaihd.net/client/installer/steamcmd.zip"
	missingDarwin  = "Could not find steamcmd.sh! Please set it in init or download it from https://steamcdn-a.akamaihd.net/client/installer/steamcmd_osx.tar.gz"
	missingLinux   = "Could not find steamcmd.sh! Please set it in init or download it from https://steamcdn-a.akamaihd.net/client/installer/steamcmd_linux.tar.gz"
)

type Platform string

func (o Platform) String() string {
	return string(o)
}

// Current returns the Platform of the running program.
func Current() Platform {
	return Platform(runtime.GOOS)
}

// Candidate is a path template that applies to a single platform.
type Candidate struct {
	Platform Platform
	Path     string
}

// Candidates lists, in priority order, every location searched for the
// steamcmd executable.
var Candidates = []Candidate{
	{Platform: Windows, Path: bundledVar + "/steamcmd.exe"},
	{Platform: Windows, Path: bundledVar + "/steam/steamcmd.exe"},
	{Platform: Windows, Path: bundledVar + "/steamcmd/steamcmd.exe"},
	{Platform: Windows, Path: steamVar + "/steamcmd.exe"},
	{Platform: Windows, Path: "C:/Program Files (x86)/steam/steamcmd.exe"},
	{Platform: Windows, Path: "C:/Program Files/steam/steamcmd.exe"},
	{Platform: Windows, Path: "C:/steamcmd/steamcmd.exe"},

	{Platform: Darwin, Path: bundledVar + "/steamcmd.sh"},
	{Platform: Darwin, Path: bundledVar + "/steam/steamcmd.sh"},
	{Platform: Darwin, Path: bundledVar + "/steamcmd/steamcmd.sh"},
	{Platform: Darwin, Path: bundledVar + "/steamcmd_linux/steamcmd.sh"},
	{Platform: Darwin, Path: bundledVar + "/steamcmd_osx/steamcmd.sh"},

	{Platform: Linux, Path: bundledVar + "/steamcmd.sh"},
	{Platform: Linux, Path: bundledVar + "/steam/steamcmd.sh"},
	{Platform: Linux, Path: bundledVar + "/steamcmd/steamcmd.sh"},
	{Platform: Linux, Path: bundledVar + "/steamcmd_linux/steamcmd.sh"},
	{Platform: Linux, Path: bundledVar + "/steamcmd_osx/steamcmd.sh"},
}

// Resolver finds the steamcmd executable.
type Resolver struct {
	Platform   Platform
	BundledDir string

	// SteamPath returns the Steam install directory recorded by the
	// Steam client. Candidates that need it are skipped when it is nil
	// or returns an error.
	SteamPath func() (string, error)

	// Exists reports whether a path is accessible. Defaults to os.Stat.
	Exists func(filePath string) bool

	Candidates []Candidate
}

// Resolve returns hint if it exists. Otherwise it returns the first
// existing candidate for the resolver's platform.
func (o Resolver) Resolve(hint string) (string, error) {
	exists := o.Exists
	if exists == nil {
		exists = fileExists
	}

	if len(strings.TrimSpace(hint)) > 0 && exists(hint) {
		return hint, nil
	}

	var steamDir string
	var steamDirErr error
	var steamDirDone bool

	for _, c := range o.candidates() {
		if c.Platform != o.Platform {
			continue
		}

		p := c.Path

		if strings.Contains(p, bundledVar) {
			if len(o.BundledDir) == 0 {
				continue
			}

			p = strings.Replace(p, bundledVar, filepath.ToSlash(o.BundledDir), 1)
		}

		if strings.Contains(p, steamVar) {
			if !steamDirDone {
				steamDirDone = true
				if o.SteamPath == nil {
					steamDirErr = errNoSteamPath
				} else {
					steamDir, steamDirErr = o.SteamPath()
				}
			}

			if steamDirErr != nil || len(steamDir) == 0 {
				continue
			}

			p = strings.Replace(p, steamVar, filepath.ToSlash(steamDir), 1)
		}

		p = filepath.FromSlash(p)

		if exists(p) {
			return p, nil
		}
	}

	return "", steamerr.NotFound(MissingMessage(o.Platform), nil)
}

func (o Resolver) candidates() []Candidate {
	if o.Candidates != nil {
		return o.Candidates
	}

	return Candidates
}

// MissingMessage returns the install instructions shown when steamcmd
// cannot be found on the given platform.
func MissingMessage(platform Platform) string {
	switch platform {
	case Windows:
		return missingWindows
	case Darwin:
		return missingDarwin
	}

	return missingLinux
}

// NewResolver returns a Resolver for the platform that searches next to
// the running executable and, on Windows, in the registry's Steam path.
func NewResolver(platform Platform) Resolver {
	r := Resolver{
		Platform: platform,
		Exists:   fileExists,
	}

	exePath, err := os.Executable()
	if err == nil {
		r.BundledDir = filepath.Dir(exePath)
	}

	if platform == Windows {
		r.SteamPath = RegistrySteamPath
	}

	return r
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
