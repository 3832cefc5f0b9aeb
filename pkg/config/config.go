/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/ingen10/go-daq/pkg/log"
)

// SerialConfig describes how to reach the device.
type SerialConfig struct {
	Port      string `json:"port"`
	Baud      int    `json:"baud,omitempty"`
	TimeoutMs int    `json:"timeout_ms,omitempty"`
}

// ApiConfig describes where the control API listens.
type ApiConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

type Config struct {
	*SerialConfig `json:"serial,omitempty"`
	*ApiConfig    `json:"api,omitempty"`
	// Hardware overrides the hardware version detected from the device.
	// Must be "m" or "s" when set.
	Hardware string `json:"hardware,omitempty"`
	DBPath   string `json:"db_path,omitempty"`
	LogLevel string `json:"log_level,omitempty"`
	filepath string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file if it exists. A missing file is not an
// error, the defaults stay in place.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, DBFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		SerialConfig: &SerialConfig{
			Port:      DefaultSerialPort,
			Baud:      DefaultBaud,
			TimeoutMs: DefaultTimeoutMs,
		},
		ApiConfig: &ApiConfig{
			Host: DefaultApiHost,
			Port: DefaultApiPort,
		},
		DBPath:   DefaultDBPath(),
		LogLevel: DefaultLogLevel,
		filepath: DefaultConfigPath(),
	}
}
