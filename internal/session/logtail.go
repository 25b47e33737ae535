package session

import (
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/stephen-fox/watcher"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
)

const (
	logFileSuffix = ".txt"

	twoFactorMarker       = "need two-factor code"
	invalidPasswordMarker = "Invalid Password"
)

var timestampPrefix = regexp.MustCompile(`^\[[0-9]{4}-[0-9]{2}-[0-9]{2}[^\]]*\] ?`)

// StripTimestamp removes the "[2006-01-02 15:04:05] " prefix steamcmd
// puts on log lines.
func StripTimestamp(line string) string {
	return timestampPrefix.ReplaceAllString(line, "")
}

// Marker returns the login failure a log line announces, or nil.
func Marker(line string) error {
	if strings.Contains(line, twoFactorMarker) {
		return steamerr.NeedsTwoFactor()
	}

	if strings.Contains(line, invalidPasswordMarker) {
		return steamerr.WrongPassword()
	}

	return nil
}

// truncateLogs empties every file in dirPath, creating the directory if
// it does not exist.
func truncateLogs(dirPath string) error {
	err := os.MkdirAll(dirPath, 0755)
	if err != nil {
		return steamerr.Unexpected("failed to create steamcmd log directory", err)
	}

	infos, err := ioutil.ReadDir(dirPath)
	if err != nil {
		return steamerr.Unexpected("failed to read steamcmd log directory", err)
	}

	for _, info := range infos {
		if info.IsDir() {
			continue
		}

		err := os.Truncate(filepath.Join(dirPath, info.Name()), 0)
		if err != nil {
			return steamerr.Unexpected("failed to clear steamcmd log file "+info.Name(), err)
		}
	}

	return nil
}

// logTail follows the files in steamcmd's log directory and passes each
// new complete line to onLine.
type logTail struct {
	dirPath string
	onLine  func(string)
	logger  *log.Logger
	watcher watcher.Watcher
	changes chan watcher.Changes
	stop    chan struct{}
	done    chan struct{}

	mutex   sync.Mutex
	offsets map[string]int64
	partial map[string]string
}

func newLogTail(dirPath string, onLine func(string), logger *log.Logger) (*logTail, error) {
	config := watcher.Config{
		ScanFunc:    watcher.ScanFilesInDirectory,
		RootDirPath: dirPath,
		FileSuffix:  logFileSuffix,
		Changes:     make(chan watcher.Changes),
	}

	w, err := watcher.NewWatcher(config)
	if err != nil {
		return nil, steamerr.Unexpected("failed to watch steamcmd log directory "+dirPath, err)
	}

	return &logTail{
		dirPath: dirPath,
		onLine:  onLine,
		logger:  logger,
		watcher: w,
		changes: config.Changes,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		offsets: make(map[string]int64),
		partial: make(map[string]string),
	}, nil
}

func (o *logTail) Start() {
	o.watcher.Start()

	go o.loop()
}

func (o *logTail) loop() {
	defer close(o.done)

	for {
		select {
		case change, open := <-o.changes:
			if !open {
				return
			}

			if change.IsErr() {
				continue
			}

			for _, filePath := range change.UpdatedFilePaths {
				o.read(filePath, false)
			}
		case <-o.stop:
			return
		}
	}
}

// Drain reads whatever is left in every log file, including a final line
// without a line ending.
func (o *logTail) Drain() {
	infos, err := ioutil.ReadDir(o.dirPath)
	if err != nil {
		o.logger.Println("Failed to read steamcmd log directory -", err.Error())
		return
	}

	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), logFileSuffix) {
			continue
		}

		o.read(filepath.Join(o.dirPath, info.Name()), true)
	}
}

// Stop shuts the watcher down before the loop so that a pending change
// notification is still received.
func (o *logTail) Stop() {
	o.watcher.Stop()
	o.watcher.Destroy()

	close(o.stop)
	<-o.done
}

func (o *logTail) read(filePath string, final bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	filePath = filepath.Clean(filePath)

	f, err := os.Open(filePath)
	if err != nil {
		o.logger.Println("Failed to open steamcmd log file -", err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		o.logger.Println("Failed to stat steamcmd log file -", err.Error())
		return
	}

	offset := o.offsets[filePath]
	if info.Size() < offset {
		// Rewritten from the start.
		offset = 0
		o.partial[filePath] = ""
	}

	_, err = f.Seek(offset, io.SeekStart)
	if err != nil {
		o.logger.Println("Failed to seek in steamcmd log file -", err.Error())
		return
	}

	raw, err := ioutil.ReadAll(f)
	if err != nil {
		o.logger.Println("Failed to read steamcmd log file -", err.Error())
		return
	}

	o.offsets[filePath] = offset + int64(len(raw))

	text := o.partial[filePath] + string(raw)
	o.partial[filePath] = ""

	if !final {
		lastNewline := strings.LastIndexByte(text, '\n')
		if lastNewline < len(text)-1 {
			o.partial[filePath] = text[lastNewline+1:]
			text = text[:lastNewline+1]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}

		o.onLine(StripTimestamp(line))
	}
}
