package session

import (
	"bytes"
	"strconv"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
)

const (
	Uninitialized State = "uninitialized"
	Initialized   State = "initialized"
	LoggingIn     State = "logging in"
	LoggedIn      State = "logged in"
	Failed        State = "failed"
)

// State is where a Session is in its login lifecycle.
type State string

func (o State) String() string {
	return string(o)
}

// Result describes how a login attempt ended.
type Result struct {
	Username string
	State    State
	ExitCode int
	Reason   string
	Kind     steamerr.Kind
}

func (o Result) Succeeded() bool {
	return o.State == LoggedIn
}

func (o Result) PrintableResult() string {
	buffer := bytes.NewBuffer(nil)
	buffer.WriteString("Login")
	if len(o.Username) > 0 {
		buffer.WriteString(" for '")
		buffer.WriteString(o.Username)
		buffer.WriteString("'")
	}
	buffer.WriteString(" has ")
	if o.Succeeded() {
		buffer.WriteString("succeeded")
	} else {
		buffer.WriteString("failed")
	}
	if o.ExitCode >= 0 {
		buffer.WriteString(" (exit status ")
		buffer.WriteString(strconv.Itoa(o.ExitCode))
		buffer.WriteString(")")
	}
	if len(o.Reason) > 0 {
		buffer.WriteString(" - ")
		buffer.WriteString(o.Reason)
	}

	return buffer.String()
}

func newResult(username string, exitCode int, err error) Result {
	if err == nil {
		return Result{
			Username: username,
			State:    LoggedIn,
			ExitCode: exitCode,
		}
	}

	r := Result{
		Username: username,
		State:    Failed,
		ExitCode: exitCode,
		Reason:   err.Error(),
		Kind:     steamerr.KindOf(err),
	}

	if e, ok := err.(*steamerr.Error); ok {
		r.Reason = e.Reason()
	}

	return r
}
