package settings

import (
	"os"
	"path"
	"time"
)

const (
	logFileExtension = ".log"
)

// LogFile opens (or creates) today's log file under the settings
// directory for appending.
func LogFile(settingsDirPath string) (*os.File, error) {
	return logFileAt(settingsDirPath, time.Now())
}

func logFileAt(settingsDirPath string, now time.Time) (*os.File, error) {
	dirPath, err := CreateLogFilesDir(settingsDirPath)
	if err != nil {
		return nil, err
	}

	filePath := path.Join(dirPath, now.Format("2006-01-02")+logFileExtension)

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, defaultFileMode)
	if err != nil {
		return nil, err
	}

	return f, nil
}
