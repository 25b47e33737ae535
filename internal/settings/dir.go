package settings

import (
	"os"
	"path"
	"runtime"
	"strings"
)

const (
	defaultDirMode         = 0700
	defaultSettingsDirname = ".steamcmdw"
	windowsSettingsDirname = "steamcmdw"
	logFilesDirName        = "logs"
	internalDirName        = ".internal"
)

// DirPath returns the directory holding the settings file and the
// tool's own logs.
func DirPath() string {
	var parentPath string
	dirname := defaultSettingsDirname

	switch runtime.GOOS {
	case "darwin":
		fallthrough
	case "linux":
		parentPath = os.Getenv("HOME")
	case "windows":
		dirname = windowsSettingsDirname
		parentPath = strings.Replace(os.Getenv("ProgramData"), "\\", "/", -1)
		if len(strings.TrimSpace(parentPath)) == 0 {
			parentPath = "/ProgramData"
		}
	}

	if len(strings.TrimSpace(parentPath)) == 0 {
		return "./" + dirname
	}

	return path.Join(parentPath, dirname)
}

func CreateInternalFilesDir(settingsDirPath string) (string, error) {
	dirPath := InternalFilesDir(settingsDirPath)

	err := CreateDir(dirPath)
	if err != nil {
		return "", err
	}

	return dirPath, nil
}

func InternalFilesDir(settingsDirPath string) string {
	return path.Join(settingsDirPath, internalDirName)
}

func CreateLogFilesDir(settingsDirPath string) (string, error) {
	dirPath := path.Join(settingsDirPath, logFilesDirName)

	err := CreateDir(dirPath)
	if err != nil {
		return "", err
	}

	return dirPath, nil
}

func CreateDir(dirPath string) error {
	return os.MkdirAll(dirPath, defaultDirMode)
}
