package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/stephen-fox/steamcmdw/internal/library"
	"github.com/stephen-fox/steamcmdw/internal/lock"
	"github.com/stephen-fox/steamcmdw/internal/session"
	"github.com/stephen-fox/steamcmdw/internal/settings"
	"github.com/stephen-fox/steamcmdw/internal/steamw"
)

const (
	appName = "steamcmdw"

	settingsDirArg = "settings"
	usernameArg    = "username"
	passwordArg    = "password"
	codeArg        = "code"
	steamKeyArg    = "steam-key"
	steamIDArg     = "steam-id"
	steamcmdArg    = "steamcmd"
	installDirArg  = "install-dir"
	dataDirArg     = "data-dir"
	apiURLArg      = "api-url"
	timeoutArg     = "timeout"
	verboseArg     = "v"
	helpArg        = "h"

	dotEnvFilename = ".env"
)

type app struct {
	settings    settings.Settings
	settingsDir string
	steamID     string
	apiURL      string
	timeout     time.Duration
	stdout      io.Writer
	stderr      io.Writer
	logger      *log.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet(appName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [options] <command>\n\ncommands: %s\n\noptions:\n",
			appName, commandsString())
		flags.PrintDefaults()
	}

	settingsDir := flags.String(settingsDirArg, settings.DirPath(), "The directory to store application settings and logs")
	username := flags.String(usernameArg, "", "The Steam account username")
	password := flags.String(passwordArg, "", "The Steam account password")
	code := flags.String(codeArg, "", "The Steam Guard or mobile authenticator code")
	steamKey := flags.String(steamKeyArg, "", "The Steam Web API key")
	steamID := flags.String(steamIDArg, "", "The Steam ID to list games for (defaults to the logged in account)")
	steamcmd := flags.String(steamcmdArg, "", "The path to the steamcmd executable")
	installDir := flags.String(installDirArg, "", "The directory games are installed to")
	dataDir := flags.String(dataDirArg, "", "The steamcmd data directory (required on Linux)")
	apiURL := flags.String(apiURLArg, library.DefaultBaseURL, "The Steam Web API base URL")
	timeout := flags.Duration(timeoutArg, 0, "Give up after this long (0 waits forever)")
	verbose := flags.Bool(verboseArg, false, "Show steamcmd's output")
	help := flags.Bool(helpArg, false, "Show this help information")

	err := flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	if *help {
		flags.Usage()
		return 0
	}

	if flags.NArg() != 1 || !isCommand(flags.Arg(0)) {
		fmt.Fprintln(stderr, "Please specify one of the following commands:", commandsString())
		return 1
	}

	fromFile, err := settings.Load(settings.FilePath(*settingsDir))
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	fromEnv, err := settings.FromEnv(dotEnvFilename, filepath.Join(*settingsDir, dotEnvFilename))
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	fromFlags := settings.Settings{
		Username:   *username,
		Password:   *password,
		TwoFactor:  *code,
		SteamKey:   *steamKey,
		Directory:  *steamcmd,
		InstallDir: *installDir,
		DataDir:    *dataDir,
	}
	if *verbose {
		fromFlags.LogLevel = settings.VerboseLevel
	}

	a := &app{
		settings:    fromFile.Merge(fromEnv).Merge(fromFlags),
		settingsDir: *settingsDir,
		steamID:     *steamID,
		apiURL:      *apiURL,
		timeout:     *timeout,
		stdout:      stdout,
		stderr:      stderr,
	}

	logFile, closeLog := a.setupLogger()
	defer closeLog()
	if logFile == nil {
		a.logger.Println("Failed to open log file - logging to stderr only")
	}

	err = a.execute(command(flags.Arg(0)))
	if err != nil {
		a.logger.Println("Failed to execute '" + flags.Arg(0) + "' - " + err.Error())
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	return 0
}

// setupLogger writes log output to today's log file and, unless the log
// level is quiet, to stderr.
func (o *app) setupLogger() (*os.File, func()) {
	var consoleOut io.Writer = o.stderr
	if o.settings.Quiet() {
		consoleOut = io.Discard
	}

	logFile, err := settings.LogFile(o.settingsDir)
	if err != nil {
		o.logger = log.New(consoleOut, "", log.LstdFlags)
		return nil, func() {}
	}

	o.logger = log.New(io.MultiWriter(consoleOut, logFile), "", log.LstdFlags)

	return logFile, func() {
		logFile.Close()
	}
}

func (o *app) execute(c command) error {
	switch c {
	case initSettingsCommand:
		return o.initSettings()
	case accountsCommand:
		return o.accounts()
	}

	ctx, cancel := o.context()
	defer cancel()

	s, err := o.newSession()
	if err != nil {
		return err
	}

	switch c {
	case loginCommand:
		return o.login(ctx, s)
	case steamIDCommand:
		id, err := s.SteamID("")
		if err != nil {
			return err
		}

		fmt.Fprintln(o.stdout, id)
	case gamesCommand:
		games, err := s.OwnedGames(ctx, o.steamID)
		if err != nil {
			return err
		}

		for _, g := range games {
			fmt.Fprintln(o.stdout, strconv.Itoa(g.AppID)+"\t"+g.Name+"\t"+strconv.Itoa(g.PlaytimeForever))
		}
	}

	return nil
}

func (o *app) context() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	if o.timeout <= 0 {
		return ctx, stop
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)

	return ctx, func() {
		cancel()
		stop()
	}
}

func (o *app) newSession() (*session.Session, error) {
	options := []session.Option{
		session.WithLogger(o.logger),
		session.WithLibrary(library.NewClient(o.settings.SteamKey, library.WithBaseURL(o.apiURL))),
	}

	if o.settings.Verbose() {
		options = append(options, session.WithConsole(o.stderr))
	}

	return session.New(session.Config{
		Username:   o.settings.Username,
		Password:   o.settings.Password,
		TwoFactor:  o.settings.TwoFactor,
		SteamKey:   o.settings.SteamKey,
		Directory:  o.settings.Directory,
		InstallDir: o.settings.InstallDir,
		DataDir:    o.settings.DataDir,
	}, options...)
}

func (o *app) login(ctx context.Context, s *session.Session) error {
	internalDir, err := settings.CreateInternalFilesDir(o.settingsDir)
	if err != nil {
		return fmt.Errorf("failed to create internal settings directory - %w", err)
	}

	l := lock.NewLock(internalDir)

	err = l.Acquire()
	if err != nil {
		return err
	}
	defer l.Release()

	lockErrs := l.Errs()
	go func() {
		for err := range lockErrs {
			o.logger.Println("Failed to refresh lock -", err.Error())
		}
	}()

	result, err := s.Login(ctx, session.Credentials{})

	fmt.Fprintln(o.stdout, result.PrintableResult())

	return err
}

func (o *app) accounts() error {
	accounts, err := steamw.LocalAccounts()
	if err != nil {
		return err
	}

	for _, a := range accounts {
		recent := ""
		if a.MostRecent {
			recent = "*"
		}

		fmt.Fprintln(o.stdout, a.SteamID64+"\t"+a.AccountName+"\t"+a.PersonaName+"\t"+recent)
	}

	return nil
}

func (o *app) initSettings() error {
	examplePath, err := settings.Create(o.settingsDir, settings.ExampleSuffix, settings.Example())
	if err != nil {
		return fmt.Errorf("failed to create example settings file - %w", err)
	}

	fmt.Fprintln(o.stdout, examplePath)

	filePath := settings.FilePath(o.settingsDir)

	_, statErr := os.Stat(filePath)
	if statErr == nil {
		return nil
	}

	filePath, err = settings.Create(o.settingsDir, "", settings.Example())
	if err != nil {
		return fmt.Errorf("failed to create settings file - %w", err)
	}

	fmt.Fprintln(o.stdout, filePath)

	return nil
}
