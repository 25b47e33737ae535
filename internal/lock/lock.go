package lock

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	Filename = ".lock"

	defaultRefreshInterval = 5 * time.Second
	defaultStaleAfter      = 15 * time.Second
	fileMode               = 0600
	maxLockFileSize        = 100
)

// Lock keeps other instances of the tool from driving steamcmd at the
// same time. The owner rewrites its PID to the lock file periodically so
// an abandoned lock goes stale.
type Lock interface {
	Acquire() error
	Errs() <-chan error
	Release()
}

type Config struct {
	DirPath         string
	RefreshInterval time.Duration
	StaleAfter      time.Duration
}

type pidLock struct {
	config Config
	mutex  *sync.Mutex
	errs   chan error
	stop   chan struct{}
	done   chan struct{}
	held   bool
}

func (o *pidLock) filePath() string {
	return filepath.Join(o.config.DirPath, Filename)
}

func (o *pidLock) Acquire() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.held {
		return nil
	}

	err := o.checkOwner()
	if err != nil {
		return err
	}

	err = o.write()
	if err != nil {
		return &AcquireError{
			reason:     unableToCreatePrefix + err.Error(),
			createFail: true,
		}
	}

	o.held = true
	o.errs = make(chan error, 1)
	o.stop = make(chan struct{})
	o.done = make(chan struct{})

	go o.refresh(o.errs, o.stop, o.done)

	return nil
}

func (o *pidLock) checkOwner() error {
	info, err := os.Stat(o.filePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &AcquireError{
			reason:   unableToReadPrefix + err.Error(),
			readFail: true,
		}
	}

	if info.IsDir() || info.Size() > maxLockFileSize {
		return nil
	}

	raw, err := os.ReadFile(o.filePath())
	if err != nil {
		return &AcquireError{
			reason:   unableToReadPrefix + err.Error(),
			readFail: true,
		}
	}

	pid, convErr := strconv.Atoi(strings.TrimSpace(string(raw)))
	if convErr != nil || pid == os.Getpid() {
		return nil
	}

	if time.Since(info.ModTime()) > o.config.StaleAfter {
		return nil
	}

	return &AcquireError{
		reason: inUsePrefix + strconv.Itoa(pid),
		inUse:  true,
		pid:    pid,
	}
}

func (o *pidLock) write() error {
	return os.WriteFile(o.filePath(), []byte(strconv.Itoa(os.Getpid())), fileMode)
}

func (o *pidLock) refresh(errs chan error, stop chan struct{}, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(o.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := o.write()
			if err != nil {
				select {
				case errs <- err:
				default:
				}
			}
		case <-stop:
			return
		}
	}
}

// Errs reports failures to refresh the lock file. The channel of the
// current acquisition is closed by Release.
func (o *pidLock) Errs() <-chan error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	return o.errs
}

// Release stops refreshing the lock, closes the Errs channel and removes
// the lock file.
func (o *pidLock) Release() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !o.held {
		return
	}

	close(o.stop)
	<-o.done
	close(o.errs)

	os.Remove(o.filePath())

	o.held = false
}

// NewLock returns a Lock backed by a file in dirPath, which must exist.
func NewLock(dirPath string) Lock {
	return NewLockWithConfig(Config{
		DirPath: dirPath,
	})
}

func NewLockWithConfig(config Config) Lock {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = defaultRefreshInterval
	}

	if config.StaleAfter <= 0 {
		config.StaleAfter = defaultStaleAfter
	}

	return &pidLock{
		config: config,
		mutex:  &sync.Mutex{},
		errs:   make(chan error, 1),
	}
}
