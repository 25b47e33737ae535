package settings

import (
	"io"
	"sync"

	"github.com/go-ini/ini"
)

type section string

type key string

type configFile interface {
	KeyValue(section, key) string
	AddOrUpdateKeyValue(section, key, string)
	Save(io.Writer) error
}

type iniConfigFile struct {
	mutex *sync.Mutex
	ini   *ini.File
}

func (o *iniConfigFile) KeyValue(s section, k key) string {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	sec, err := o.ini.GetSection(string(s))
	if err != nil {
		return ""
	}

	if !sec.HasKey(string(k)) {
		return ""
	}

	return sec.Key(string(k)).String()
}

func (o *iniConfigFile) AddOrUpdateKeyValue(s section, k key, v string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	sec, err := o.ini.GetSection(string(s))
	if err != nil {
		sec, err = o.ini.NewSection(string(s))
		if err != nil {
			return
		}
	}

	if sec.HasKey(string(k)) {
		sec.Key(string(k)).SetValue(v)
		return
	}

	_, err = sec.NewKey(string(k), v)
	if err != nil {
		return
	}
}

func (o *iniConfigFile) Save(w io.Writer) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	_, err := o.ini.WriteTo(w)
	if err != nil {
		return err
	}

	return nil
}

func newEmptyIniFile() configFile {
	return &iniConfigFile{
		mutex: &sync.Mutex{},
		ini:   ini.Empty(),
	}
}

func loadIniFile(filePath string) (configFile, error) {
	options := ini.LoadOptions{
		IgnoreInlineComment: true,
	}

	i, err := ini.LoadSources(options, filePath)
	if err != nil {
		return &iniConfigFile{}, err
	}

	return &iniConfigFile{
		mutex: &sync.Mutex{},
		ini:   i,
	}, nil
}
