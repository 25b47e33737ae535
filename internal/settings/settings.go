package settings

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	Filename      = "steamcmdw.ini"
	ExampleSuffix = "-example"

	defaultFileMode = 0600

	steamcmdSection section = "steamcmd"

	usernameKey   key = "username"
	passwordKey   key = "password"
	twoFactorKey  key = "two_factor"
	steamKeyKey   key = "steam_key"
	directoryKey  key = "directory"
	installDirKey key = "install_dir"
	dataDirKey    key = "data_dir"
	logLevelKey   key = "log_level"
)

const (
	QuietLevel   = "quiet"
	InfoLevel    = "info"
	VerboseLevel = "verbose"
)

// Settings are the values the tool reads from its settings file, the
// environment and the command line.
type Settings struct {
	Username   string `env:"STEAMCMD_USERNAME"`
	Password   string `env:"STEAMCMD_PASSWORD"`
	TwoFactor  string `env:"STEAMCMD_TWO_FACTOR"`
	SteamKey   string `env:"STEAM_API_KEY"`
	Directory  string `env:"STEAMCMD_PATH"`
	InstallDir string `env:"STEAMCMD_INSTALL_DIR"`
	DataDir    string `env:"STEAMCMD_DATA_DIR"`
	LogLevel   string `env:"STEAMCMD_LOG_LEVEL"`
}

// Merge returns a copy of o where every non-empty field of other wins.
func (o Settings) Merge(other Settings) Settings {
	return Settings{
		Username:   pick(o.Username, other.Username),
		Password:   pick(o.Password, other.Password),
		TwoFactor:  pick(o.TwoFactor, other.TwoFactor),
		SteamKey:   pick(o.SteamKey, other.SteamKey),
		Directory:  pick(o.Directory, other.Directory),
		InstallDir: pick(o.InstallDir, other.InstallDir),
		DataDir:    pick(o.DataDir, other.DataDir),
		LogLevel:   pick(o.LogLevel, other.LogLevel),
	}
}

func (o Settings) Verbose() bool {
	return strings.EqualFold(o.LogLevel, VerboseLevel) || strings.EqualFold(o.LogLevel, "debug")
}

func (o Settings) Quiet() bool {
	return strings.EqualFold(o.LogLevel, QuietLevel)
}

func (o Settings) Save(w io.Writer) error {
	config := newEmptyIniFile()

	config.AddOrUpdateKeyValue(steamcmdSection, usernameKey, o.Username)
	config.AddOrUpdateKeyValue(steamcmdSection, passwordKey, o.Password)
	config.AddOrUpdateKeyValue(steamcmdSection, twoFactorKey, o.TwoFactor)
	config.AddOrUpdateKeyValue(steamcmdSection, steamKeyKey, o.SteamKey)
	config.AddOrUpdateKeyValue(steamcmdSection, directoryKey, o.Directory)
	config.AddOrUpdateKeyValue(steamcmdSection, installDirKey, o.InstallDir)
	config.AddOrUpdateKeyValue(steamcmdSection, dataDirKey, o.DataDir)
	config.AddOrUpdateKeyValue(steamcmdSection, logLevelKey, o.LogLevel)

	return config.Save(w)
}

func pick(current string, override string) string {
	if len(strings.TrimSpace(override)) > 0 {
		return override
	}

	return current
}

// Example returns placeholder settings for a new settings file.
func Example() Settings {
	s := Settings{
		Username: "steam-username",
		Password: "steam-password",
		LogLevel: InfoLevel,
	}

	if runtime.GOOS == "windows" {
		s.Directory = "C:\\path\\to\\steamcmd"
	} else {
		s.Directory = "/path/to/steamcmd"
	}

	return s
}

// FilePath returns the settings file path in settingsDirPath.
func FilePath(settingsDirPath string) string {
	return path.Join(settingsDirPath, Filename)
}

// Load reads the settings file at filePath. A missing file yields empty
// settings.
func Load(filePath string) (Settings, error) {
	_, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, nil
	}

	config, err := loadIniFile(filePath)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings file %s: %w", filePath, err)
	}

	return Settings{
		Username:   config.KeyValue(steamcmdSection, usernameKey),
		Password:   config.KeyValue(steamcmdSection, passwordKey),
		TwoFactor:  config.KeyValue(steamcmdSection, twoFactorKey),
		SteamKey:   config.KeyValue(steamcmdSection, steamKeyKey),
		Directory:  config.KeyValue(steamcmdSection, directoryKey),
		InstallDir: config.KeyValue(steamcmdSection, installDirKey),
		DataDir:    config.KeyValue(steamcmdSection, dataDirKey),
		LogLevel:   config.KeyValue(steamcmdSection, logLevelKey),
	}, nil
}

// FromEnv reads settings from the environment after loading any of the
// given .env files that exist. Variables already set are not replaced by
// .env values.
func FromEnv(dotEnvPaths ...string) (Settings, error) {
	for _, p := range dotEnvPaths {
		err := godotenv.Load(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	var s Settings
	err := env.Load(&s, nil)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return s, nil
}

// Create writes s to the settings file in parentDirPath, with
// filenameSuffix inserted before the extension. It returns the file path.
func Create(parentDirPath string, filenameSuffix string, s Settings) (string, error) {
	err := CreateDir(parentDirPath)
	if err != nil {
		return "", err
	}

	filename := strings.TrimSuffix(Filename, path.Ext(Filename)) + filenameSuffix + path.Ext(Filename)
	filePath := path.Join(parentDirPath, filename)

	f, err := os.OpenFile(filePath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return "", err
	}
	defer f.Close()

	err = s.Save(f)
	if err != nil {
		return "", err
	}

	return filePath, nil
}
