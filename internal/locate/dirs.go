package locate

import (
	"path/filepath"
)

const (
	logsDirName = "logs"
)

// DataDir returns the directory steamcmd keeps its config and logs in.
//
// On Windows that is the directory containing the executable. On macOS it
// is the Steam client's Application Support directory. On Linux there is
// no known default and the result is empty; callers must treat that as
// unresolved rather than guessing.
func DataDir(platform Platform, exePath string, homeDirPath string) string {
	switch platform {
	case Windows:
		return filepath.Dir(exePath)
	case Darwin:
		if len(homeDirPath) == 0 {
			return ""
		}

		return filepath.Join(homeDirPath, "Library", "Application Support", "Steam")
	}

	return ""
}

// LogsDir returns the steamcmd log directory inside dataDirPath.
func LogsDir(dataDirPath string) string {
	if len(dataDirPath) == 0 {
		return ""
	}

	return filepath.Join(dataDirPath, logsDirName)
}
