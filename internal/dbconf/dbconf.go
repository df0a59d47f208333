// Package dbconf reads database configuration files with one entry per named environment.
//
//	development:
//	  driver: sqlite3
//	  open: file:dev.db
//	production:
//	  driver: postgres
//	  open: postgres://app:${DB_PASSWORD}@db/app?sslmode=disable
//	  dir: db
//	  table: schema_ledger
//
// Variables in open strings are expanded from the process environment.
package dbconf

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mfridman/interpolate"
	"gopkg.in/yaml.v3"
)

// DBConf is the configuration of a single environment.
type DBConf struct {
	Name       string `yaml:"-"`
	Driver     string `yaml:"driver"`
	OpenStr    string `yaml:"open"`
	Dir        string `yaml:"dir"`
	Table      string `yaml:"table"`
	Migrations string `yaml:"migrations"`
	Seeds      string `yaml:"seeds"`
}

// FromFile extracts the configuration of envtype from the file at path.
func FromFile(path, envtype string) (*DBConf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	conf, err := Parse(data, envtype)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

// Parse extracts the configuration of envtype from the YAML document in data.
func Parse(data []byte, envtype string) (*DBConf, error) {
	if envtype == "" {
		return nil, errors.New("environment must not be empty")
	}
	var envs map[string]*DBConf
	if err := yaml.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	conf, ok := envs[envtype]
	if !ok || conf == nil {
		names := make([]string, 0, len(envs))
		for name := range envs {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("environment %q not found, available: %v", envtype, names)
	}
	if conf.Driver == "" {
		return nil, fmt.Errorf("environment %q: driver must not be empty", envtype)
	}
	open, err := interpolate.Interpolate(osEnv{}, conf.OpenStr)
	if err != nil {
		return nil, fmt.Errorf("environment %q: failed to expand open string: %w", envtype, err)
	}
	conf.Name = envtype
	conf.OpenStr = open
	return conf, nil
}

type osEnv struct{}

var _ interpolate.Env = osEnv{}

func (osEnv) Get(key string) (string, bool) {
	return os.LookupEnv(key)
}
