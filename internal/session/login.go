package session

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
)

// Args returns the steamcmd arguments for a login. code is omitted when
// empty.
func Args(username string, password string, code string) []string {
	args := []string{"+login", username, password}

	if len(code) > 0 {
		args = append(args, code)
	}

	return append(args, "+quit")
}

// outcome holds the first error (or success) reported for a login.
type outcome struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newOutcome() *outcome {
	return &outcome{
		done: make(chan struct{}),
	}
}

func (o *outcome) resolve(err error) {
	o.once.Do(func() {
		o.err = err
		close(o.done)
	})
}

// Login runs steamcmd with the session's credentials and waits for it to
// finish. The returned error is nil only when the login succeeded.
//
// steamcmd's log directory is cleared first, then followed while the
// process runs. A log line announcing a bad password or a missing
// two-factor code ends the login immediately with that error, even if
// steamcmd later exits cleanly.
func (o *Session) Login(ctx context.Context, creds Credentials) (Result, error) {
	username, password, code := o.credentials(creds)

	err := o.beginLogin()
	if err != nil {
		return newResult(username, -1, err), err
	}

	exitCode, err := o.runLogin(ctx, username, password, code)

	o.mutex.Lock()
	if err == nil {
		o.state = LoggedIn
		o.failure = nil
	} else {
		o.state = Failed
		o.failure = err
	}
	o.mutex.Unlock()

	if err == nil {
		o.logger.Println("Logged in as", username)
	} else {
		o.logger.Println("Login failed for", username, "-", err.Error())
	}

	return newResult(username, exitCode, err), err
}

func (o *Session) credentials(creds Credentials) (string, string, string) {
	username := creds.Username
	if len(strings.TrimSpace(username)) == 0 {
		username = o.config.Username
	}

	password := creds.Password
	if len(password) == 0 {
		password = o.config.Password
	}

	code := creds.Code
	if len(code) == 0 {
		code = o.config.TwoFactor
	}

	return username, password, code
}

func (o *Session) beginLogin() error {
	err := o.checkReady()
	if err != nil {
		return err
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.state == LoggingIn {
		return steamerr.New(steamerr.Unknown, "A login is already in progress", nil)
	}

	o.state = LoggingIn
	o.logLines = nil

	return nil
}

func (o *Session) runLogin(ctx context.Context, username string, password string, code string) (int, error) {
	err := truncateLogs(o.logsDir)
	if err != nil {
		return -1, err
	}

	result := newOutcome()

	tail, err := newLogTail(o.logsDir, func(line string) {
		o.mutex.Lock()
		o.logLines = append(o.logLines, line)
		o.mutex.Unlock()

		o.logger.Println(line)

		markerErr := Marker(line)
		if markerErr != nil {
			result.resolve(markerErr)
		}
	}, o.logger)
	if err != nil {
		return -1, err
	}

	tail.Start()
	defer tail.Stop()

	cmd := exec.Command(o.exePath, Args(username, password, code)...)
	if o.console != nil {
		cmd.Stdout = o.console
		cmd.Stderr = o.console
	}

	o.logger.Println("Starting", o.exePath, "+login", username, "+quit")

	err = cmd.Start()
	if err != nil {
		return -1, steamerr.Unexpected("failed to start steamcmd", err)
	}

	exitCode := -1
	exited := make(chan struct{})

	go func() {
		defer close(exited)

		waitErr := cmd.Wait()
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}

		tail.Drain()

		result.resolve(exitError(waitErr))
	}()

	select {
	case <-result.done:
	case <-ctx.Done():
		result.resolve(ctx.Err())
	}

	select {
	case <-exited:
	default:
		_ = cmd.Process.Kill()
		<-exited
	}

	return exitCode, result.err
}

func exitError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return steamerr.ExitStatus(exitErr.ExitCode())
	}

	return steamerr.Unexpected("failed waiting for steamcmd", err)
}
