package steamerr

import (
	"errors"
	"strconv"
)

const (
	MissingInput          Kind = "missing input"
	NotFoundKind          Kind = "not found"
	ParseErrorKind        Kind = "parse error"
	MissingSteamKey       Kind = "missing steam key"
	MissingSteamID        Kind = "missing steam id"
	MissingTwoFactor      Kind = "missing two factor"
	IncorrectPassword     Kind = "incorrect password"
	FeatureNotImplemented Kind = "feature not implemented"
	NetworkErrorKind      Kind = "network error"
	Configuration         Kind = "configuration"
	Unknown               Kind = "unknown"
)

const (
	missingUsernameReason   = "Missing username!"
	missingPasswordReason   = "Missing password!"
	missingSteamKeyReason   = "SteamKey not defined. Feature disabled."
	missingSteamIDReason    = "Missing SteamId!"
	missingTwoFactorReason  = "This account uses two factor authentication, please provide a mobile auth or steam guard key."
	incorrectPasswordReason = "Password was incorrect!"
	missingSteamDirReason   = "Could not find steam conf directory!"
	featureMissingPrefix    = "Feature not yet implemented: "
	somethingHappenedPrefix = "Something happened: "
)

// Kind classifies an Error.
type Kind string

func (o Kind) String() string {
	return string(o)
}

// Error is the error type returned by every steamcmdw package. The Kind
// says what went wrong; the reason is the human readable message.
type Error struct {
	kind   Kind
	reason string
	cause  error
}

func (o *Error) Error() string {
	if o.cause != nil {
		return o.reason + " - " + o.cause.Error()
	}

	return o.reason
}

func (o *Error) Unwrap() error {
	return o.cause
}

func (o *Error) Kind() Kind {
	return o.kind
}

func (o *Error) Reason() string {
	return o.reason
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}

	return Unknown
}

func New(kind Kind, reason string, cause error) *Error {
	return &Error{
		kind:   kind,
		reason: reason,
		cause:  cause,
	}
}

func MissingUsername() *Error {
	return New(MissingInput, missingUsernameReason, nil)
}

func MissingPassword() *Error {
	return New(MissingInput, missingPasswordReason, nil)
}

func NotFound(reason string, cause error) *Error {
	return New(NotFoundKind, reason, cause)
}

func ParseError(reason string, cause error) *Error {
	return New(ParseErrorKind, reason, cause)
}

func NoSteamKey() *Error {
	return New(MissingSteamKey, missingSteamKeyReason, nil)
}

func NoSteamID() *Error {
	return New(MissingSteamID, missingSteamIDReason, nil)
}

func NeedsTwoFactor() *Error {
	return New(MissingTwoFactor, missingTwoFactorReason, nil)
}

func WrongPassword() *Error {
	return New(IncorrectPassword, incorrectPasswordReason, nil)
}

func NotImplemented(feature string) *Error {
	return New(FeatureNotImplemented, featureMissingPrefix+feature, nil)
}

func NetworkError(cause error) *Error {
	return New(NetworkErrorKind, somethingHappenedPrefix+"request to the Steam Web API failed", cause)
}

func MissingDataDir() *Error {
	return New(Configuration, missingSteamDirReason, nil)
}

func Unexpected(reason string, cause error) *Error {
	return New(Unknown, somethingHappenedPrefix+reason, cause)
}

// ExitStatus reports a steamcmd process that ended without a recognized
// log marker.
func ExitStatus(code int) *Error {
	return New(Unknown, somethingHappenedPrefix+"steamcmd exited with status "+strconv.Itoa(code), nil)
}

func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.kind == kind
}

func IsMissingInput(err error) bool {
	return Is(err, MissingInput)
}

func IsNotFound(err error) bool {
	return Is(err, NotFoundKind)
}

func IsParseError(err error) bool {
	return Is(err, ParseErrorKind)
}

func IsMissingSteamKey(err error) bool {
	return Is(err, MissingSteamKey)
}

func IsMissingSteamID(err error) bool {
	return Is(err, MissingSteamID)
}

func IsMissingTwoFactor(err error) bool {
	return Is(err, MissingTwoFactor)
}

func IsIncorrectPassword(err error) bool {
	return Is(err, IncorrectPassword)
}

func IsFeatureNotImplemented(err error) bool {
	return Is(err, FeatureNotImplemented)
}

func IsNetworkError(err error) bool {
	return Is(err, NetworkErrorKind)
}

func IsConfiguration(err error) bool {
	return Is(err, Configuration)
}
