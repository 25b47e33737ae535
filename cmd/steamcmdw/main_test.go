package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configVDF = `"InstallConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"Accounts"
				{
					"someone"
					{
						"SteamID"		"76561198000000042"
					}
				}
			}
		}
	}
}
`

func clearEnv(t *testing.T) {
	for _, name := range []string{
		"STEAMCMD_USERNAME",
		"STEAMCMD_PASSWORD",
		"STEAMCMD_TWO_FACTOR",
		"STEAM_API_KEY",
		"STEAMCMD_PATH",
		"STEAMCMD_INSTALL_DIR",
		"STEAMCMD_DATA_DIR",
		"STEAMCMD_LOG_LEVEL",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// fakeInstall creates a steamcmd executable placeholder and a data
// directory holding config.vdf.
func fakeInstall(t *testing.T) (string, string) {
	dir := t.TempDir()

	exePath := filepath.Join(dir, "steamcmd.sh")
	require.NoError(t, os.WriteFile(exePath, []byte("#!/bin/sh\n"), 0755))

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config", "config.vdf"), []byte(configVDF), 0644))

	return exePath, dataDir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)

	code := run(append([]string{"-" + settingsDirArg, t.TempDir()}, args...), stdout, stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, commandsString())
}

func TestRun_MissingOrUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "'login', 'steamid', 'games', 'accounts', 'init-settings'")

	code, _, _ = runCLI(t, "download")
	assert.Equal(t, 1, code)
}

func TestRun_InitSettings(t *testing.T) {
	clearEnv(t)
	settingsDir := filepath.Join(t.TempDir(), "settings")
	stdout := bytes.NewBuffer(nil)

	code := run([]string{"-" + settingsDirArg, settingsDir, "init-settings"}, stdout, bytes.NewBuffer(nil))
	require.Equal(t, 0, code)

	assert.FileExists(t, filepath.Join(settingsDir, "steamcmdw-example.ini"))
	assert.FileExists(t, filepath.Join(settingsDir, "steamcmdw.ini"))
	assert.Contains(t, stdout.String(), "steamcmdw.ini")

	entries, err := os.ReadDir(filepath.Join(settingsDir, "logs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_LoginRequiresUsername(t *testing.T) {
	clearEnv(t)

	code, _, stderr := runCLI(t, "-"+passwordArg, "p", "login")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Missing username!")
}

func TestRun_SteamID(t *testing.T) {
	clearEnv(t)
	exePath, dataDir := fakeInstall(t)

	code, stdout, stderr := runCLI(t,
		"-"+usernameArg, "u",
		"-"+passwordArg, "p",
		"-"+steamcmdArg, exePath,
		"-"+dataDirArg, dataDir,
		"steamid")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "76561198000000042\n", stdout)
}

func TestRun_SettingsFromEnv(t *testing.T) {
	clearEnv(t)
	exePath, dataDir := fakeInstall(t)
	t.Setenv("STEAMCMD_USERNAME", "u")
	t.Setenv("STEAMCMD_PASSWORD", "p")
	t.Setenv("STEAMCMD_PATH", exePath)
	t.Setenv("STEAMCMD_DATA_DIR", dataDir)

	code, stdout, stderr := runCLI(t, "steamid")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "76561198000000042\n", stdout)
}

func TestRun_Games(t *testing.T) {
	clearEnv(t)
	exePath, dataDir := fakeInstall(t)

	var mutex sync.Mutex
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		gotID = r.URL.Query().Get("steamid")
		mutex.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":{"game_count":2,"games":[` +
			`{"appid":10,"name":"Counter-Strike","playtime_forever":42},` +
			`{"appid":70,"name":"Half-Life","playtime_forever":0}]}}`))
	}))
	defer server.Close()

	code, stdout, stderr := runCLI(t,
		"-"+usernameArg, "u",
		"-"+passwordArg, "p",
		"-"+steamKeyArg, "KEY",
		"-"+steamcmdArg, exePath,
		"-"+dataDirArg, dataDir,
		"-"+apiURLArg, server.URL,
		"games")
	require.Equal(t, 0, code, stderr)

	mutex.Lock()
	assert.Equal(t, "76561198000000042", gotID)
	mutex.Unlock()
	assert.Equal(t, "10\tCounter-Strike\t42\n70\tHalf-Life\t0\n", stdout)
}

func TestRun_GamesWithoutSteamKey(t *testing.T) {
	clearEnv(t)
	exePath, dataDir := fakeInstall(t)

	code, _, stderr := runCLI(t,
		"-"+usernameArg, "u",
		"-"+passwordArg, "p",
		"-"+steamcmdArg, exePath,
		"-"+dataDirArg, dataDir,
		"games")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "SteamKey not defined. Feature disabled.")
}
