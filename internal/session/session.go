package session

import (
	"context"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/stephen-fox/steamcmdw/internal/account"
	"github.com/stephen-fox/steamcmdw/internal/library"
	"github.com/stephen-fox/steamcmdw/internal/locate"
	"github.com/stephen-fox/steamcmdw/internal/steamerr"
)

const (
	missingSteamKeyWarning = "WARN: Missing SteamKey; some functionality disabled"
)

// Config is the input to New.
type Config struct {
	Username  string
	Password  string
	TwoFactor string

	// SteamKey is a Steam Web API key. Without it OwnedGames is disabled.
	SteamKey string

	// Directory is a hint for the steamcmd executable's path.
	Directory string

	// InstallDir defaults to the data directory.
	InstallDir string

	// DataDir overrides the platform's steamcmd data directory. It is
	// required on Linux, which has no default.
	DataDir string
}

// Credentials override the Config's credentials for a single login.
// Empty fields fall back to the Config.
type Credentials struct {
	Username string
	Password string
	Code     string
}

type Option func(*Session)

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithConsole sends steamcmd's stdout and stderr to w. They are
// discarded by default.
func WithConsole(w io.Writer) Option {
	return func(s *Session) {
		s.console = w
	}
}

func WithPlatform(platform locate.Platform) Option {
	return func(s *Session) {
		s.platform = platform
	}
}

func WithResolver(r locate.Resolver) Option {
	return func(s *Session) {
		s.resolver = &r
	}
}

func WithLibrary(c *library.Client) Option {
	return func(s *Session) {
		s.library = c
	}
}

// Session owns the configuration and state of one steamcmd login.
type Session struct {
	config   Config
	platform locate.Platform
	resolver *locate.Resolver
	logger   *log.Logger
	console  io.Writer
	library  *library.Client

	exePath    string
	dataDir    string
	installDir string
	logsDir    string

	mutex    sync.Mutex
	state    State
	failure  error
	steamID  string
	logLines []string
}

// New validates the configuration, finds steamcmd and works out where it
// keeps its data.
func New(config Config, options ...Option) (*Session, error) {
	if len(strings.TrimSpace(config.Username)) == 0 {
		return nil, steamerr.MissingUsername()
	}

	if len(config.Password) == 0 {
		return nil, steamerr.MissingPassword()
	}

	s := &Session{
		config:   config,
		platform: locate.Current(),
	}

	for _, o := range options {
		o(s)
	}

	if s.logger == nil {
		s.logger = log.New(ioutil.Discard, "", 0)
	}

	if len(strings.TrimSpace(config.SteamKey)) == 0 {
		s.logger.Println(missingSteamKeyWarning)
	}

	if s.library == nil {
		s.library = library.NewClient(config.SteamKey)
	}

	var resolver locate.Resolver
	if s.resolver != nil {
		resolver = *s.resolver
	} else {
		resolver = locate.NewResolver(s.platform)
	}

	exePath, err := resolver.Resolve(config.Directory)
	if err != nil {
		return nil, err
	}

	s.exePath = exePath

	s.dataDir = strings.TrimSpace(config.DataDir)
	if len(s.dataDir) == 0 {
		var home string
		if s.platform == locate.Darwin {
			home, err = os.UserHomeDir()
			if err != nil {
				s.logger.Println("Failed to find home directory -", err.Error())
			}
		}

		s.dataDir = locate.DataDir(s.platform, exePath, home)
	}

	if len(s.dataDir) == 0 {
		s.logger.Println("Steam data directory is unknown on " + s.platform.String() +
			" - login and Steam ID lookup are disabled until one is configured")
	}

	s.installDir = strings.TrimSpace(config.InstallDir)
	if len(s.installDir) == 0 {
		s.installDir = s.dataDir
	}

	s.logsDir = locate.LogsDir(s.dataDir)
	s.state = Initialized

	return s, nil
}

func (o *Session) ExePath() string {
	return o.exePath
}

func (o *Session) DataDir() string {
	return o.dataDir
}

func (o *Session) InstallDir() string {
	return o.installDir
}

func (o *Session) LogsDir() string {
	return o.logsDir
}

func (o *Session) State() State {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if len(o.state) == 0 {
		return Uninitialized
	}

	return o.state
}

func (o *Session) LoggedIn() bool {
	return o.State() == LoggedIn
}

// Err returns the reason for the last failed login, if any.
func (o *Session) Err() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	return o.failure
}

// Logs returns every steamcmd log line seen so far, with timestamps
// removed.
func (o *Session) Logs() []string {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	lines := make([]string, len(o.logLines))
	copy(lines, o.logLines)
	return lines
}

// SteamID returns the Steam ID of the account in steamcmd's config.vdf.
// Looking an ID up by username is not supported.
func (o *Session) SteamID(username string) (string, error) {
	if len(username) > 0 {
		return "", steamerr.NotImplemented("username id lookup")
	}

	err := o.checkReady()
	if err != nil {
		return "", err
	}

	id, err := account.SteamID(o.dataDir)
	if err != nil {
		return "", err
	}

	o.mutex.Lock()
	o.steamID = id
	o.mutex.Unlock()

	return id, nil
}

// OwnedGames lists the games owned by steamID. When steamID is empty the
// ID found by an earlier SteamID call is used, then config.vdf.
func (o *Session) OwnedGames(ctx context.Context, steamID string) ([]library.Game, error) {
	if o.library == nil {
		return nil, notInitialized()
	}

	return o.library.OwnedGames(ctx, o.config.Username, steamID, o.knownSteamID)
}

func (o *Session) knownSteamID() (string, error) {
	o.mutex.Lock()
	id := o.steamID
	o.mutex.Unlock()

	if len(id) > 0 {
		return id, nil
	}

	return o.SteamID("")
}

func (o *Session) DownloadGame(appID int) error {
	return steamerr.NotImplemented("game download")
}

func (o *Session) ValidateGame(appID int) error {
	return steamerr.NotImplemented("game validation")
}

func (o *Session) checkReady() error {
	o.mutex.Lock()
	state := o.state
	o.mutex.Unlock()

	if len(state) == 0 || state == Uninitialized {
		return notInitialized()
	}

	if len(o.dataDir) == 0 {
		return steamerr.MissingDataDir()
	}

	return nil
}

func notInitialized() error {
	return steamerr.New(steamerr.Configuration, "Session has not been initialized", nil)
}
