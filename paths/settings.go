package paths

import (
	"encoding/json"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/moby/patternmatcher"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/src-d/go-billy.v4/util"

	"github.com/redbadger/webdeploy/constants"
	"github.com/redbadger/webdeploy/filesystem"
	"github.com/redbadger/webdeploy/model"
)

// EnvSettingsFile is the settings file that overrides deploy.config.json for one environment
func EnvSettingsFile(configurationName string) string {
	return "deploy." + configurationName + ".config.json"
}

// GoverningSettings picks the settings file for a run. deploy.<name>.config.json wins
// over deploy.config.json when it exists; the two are never merged. Files are read on
// every call so edits apply to the next run.
func (r *Resolver) GoverningSettings(configurationName string) (string, model.DeploySettings, error) {
	if configurationName != "" {
		envFile := EnvSettingsFile(configurationName)
		ok, err := filesystem.IsFile(r.fs, envFile)
		if err != nil {
			return "", model.DeploySettings{}, errors.Wrapf(err, "checking %s", envFile)
		}
		if ok {
			s, err := r.LoadSettings(envFile)
			return envFile, s, err
		}
	}
	s, err := r.DefaultSettings()
	return constants.DefaultSettingsFile, s, err
}

// DefaultSettings loads deploy.config.json
func (r *Resolver) DefaultSettings() (model.DeploySettings, error) {
	return r.LoadSettings(constants.DefaultSettingsFile)
}

// LoadSettings reads and validates one settings file
func (r *Resolver) LoadSettings(name string) (s model.DeploySettings, err error) {
	f, err := r.fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return s, errors.Wrapf(model.ErrNotFound, "settings file %s", r.Abs(name))
		}
		return s, errors.Wrapf(err, "opening %s", name)
	}
	defer f.Close()

	s, err = decodeSettings(f)
	if err != nil {
		return s, errors.Wrapf(err, "reading %s", name)
	}
	log.WithField("file", name).Debug("loaded deploy settings")
	return s, nil
}

func decodeSettings(in io.Reader) (s model.DeploySettings, err error) {
	v := viper.New()
	v.SetConfigType("json")
	if err = v.ReadConfig(in); err != nil {
		return s, err
	}
	err = v.Unmarshal(&s, viper.DecodeHook(tokenListHook()))
	if err != nil {
		return s, err
	}
	if len(s.ExcludeFromCleanup) == 0 {
		s.ExcludeFromCleanup = nil
	}
	if len(s.ExcludeFromCopy) == 0 {
		s.ExcludeFromCopy = nil
	}
	checkTokens(s)
	return s, nil
}

var stringSlice = reflect.TypeOf([]string{})

// tokenListHook accepts an exclusion list either as "a, b,c" or as ["a", "b", "c"]
func tokenListHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != stringSlice {
			return data, nil
		}
		switch d := data.(type) {
		case string:
			return splitTokens(strings.Split(d, ",")), nil
		case []interface{}:
			raw := make([]string, 0, len(d))
			for _, item := range d {
				str, ok := item.(string)
				if !ok {
					return nil, errors.Errorf("exclusion token %v is not a string", item)
				}
				raw = append(raw, str)
			}
			return splitTokens(raw), nil
		}
		return data, nil
	}
}

func splitTokens(raw []string) []string {
	tokens := []string{}
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// checkTokens warns about exclusion tokens that are not valid patterns. They are
// still passed to the deploy script unchanged.
func checkTokens(s model.DeploySettings) {
	lists := []struct {
		key    string
		tokens []string
	}{
		{"excludeFromCleanup", s.ExcludeFromCleanup},
		{"excludeFromCopy", s.ExcludeFromCopy},
	}
	for _, l := range lists {
		for _, token := range l.tokens {
			if _, err := patternmatcher.New([]string{token}); err != nil {
				log.WithError(err).WithFields(log.Fields{"key": l.key, "token": token}).
					Warn("exclusion token is not a valid pattern")
			}
		}
	}
}

// settingsTemplate is written in the on-disk format, exclusion lists as strings
type settingsTemplate struct {
	Server               string `json:"server"`
	PoolName             string `json:"poolName"`
	AppFolderLocation    string `json:"appFolderLocation"`
	BackupFolderLocation string `json:"backupFolderLocation"`
	ExcludeFromCleanup   string `json:"excludeFromCleanup"`
	ExcludeFromCopy      string `json:"excludeFromCopy"`
	JSONConfiguration    bool   `json:"jsonConfiguration"`
	DefaultConfiguration string `json:"defaultConfiguration"`
}

// EnsureDefaultSettings writes an empty deploy.config.json when the workspace has
// none. created reports whether it did.
func (r *Resolver) EnsureDefaultSettings() (created bool, err error) {
	ok, err := filesystem.Exists(r.fs, constants.DefaultSettingsFile)
	if err != nil || ok {
		return false, err
	}
	b, err := json.MarshalIndent(settingsTemplate{}, "", "    ")
	if err != nil {
		return false, err
	}
	if err = util.WriteFile(r.fs, constants.DefaultSettingsFile, b, 0644); err != nil {
		return false, errors.Wrapf(err, "writing %s", constants.DefaultSettingsFile)
	}
	log.WithField("file", r.Abs(constants.DefaultSettingsFile)).Info("created settings template")
	return true, nil
}

// AppName reads the project name from package.json
func (r *Resolver) AppName() (string, error) {
	f, err := r.fs.Open(constants.PackageFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(model.ErrNotFound, "%s", r.Abs(constants.PackageFile))
		}
		return "", err
	}
	defer f.Close()

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(f); err != nil {
		return "", errors.Wrapf(err, "reading %s", constants.PackageFile)
	}
	name := v.GetString("name")
	if name == "" {
		return "", errors.Errorf("%s has no name", constants.PackageFile)
	}
	return name, nil
}
