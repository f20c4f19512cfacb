// Copyright © 2022 DocAnchor Project Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/spf13/viper"
)

// The following keys can be accessed from the root configuration.
// Plugins are responsible for defining their own keys using the Prefix interface
var (
	Lang                 RootKey = ark("lang")
	LogLevel             RootKey = ark("log.level")
	LogColor             RootKey = ark("log.color")
	LogUTC               RootKey = ark("log.utc")
	DebugPort            RootKey = ark("debug.port")
	CorsEnabled          RootKey = ark("cors.enabled")
	CorsAllowedOrigins   RootKey = ark("cors.origins")
	CorsAllowedMethods   RootKey = ark("cors.methods")
	CorsAllowedHeaders   RootKey = ark("cors.headers")
	CorsAllowCredentials RootKey = ark("cors.credentials")
	CorsMaxAge           RootKey = ark("cors.maxAge")
	CorsDebug            RootKey = ark("cors.debug")
	APIRequestTimeout    RootKey = ark("api.requestTimeout")
	APIRequestMaxTimeout RootKey = ark("api.requestMaxTimeout")
	LedgerType           RootKey = ark("ledger.type")
)

// Prefix represents the global configuration, at a nested point in
// the config hierarchy. This allows plugins to define their own keys.
//
// Note that all values are GLOBAL so this cannot be used for per-instance
// customization. Rather for global initialization of plugins.
type Prefix interface {
	AddKnownKey(key string, defValue ...interface{})
	SubPrefix(suffix string) Prefix
	Set(key string, value interface{})

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt64(key string) int64
	GetUint(key string) uint
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	GetStringMap(key string) map[string]interface{}
	Get(key string) interface{}
	Resolve(key string) string
}

// RootKey are the known configuration keys
type RootKey string

func Reset() {
	viper.Reset()

	// Set defaults
	viper.SetDefault(string(Lang), "en")
	viper.SetDefault(string(LogLevel), "info")
	viper.SetDefault(string(LogColor), true)
	viper.SetDefault(string(DebugPort), -1)
	viper.SetDefault(string(CorsEnabled), true)
	viper.SetDefault(string(CorsAllowedOrigins), []string{"*"})
	viper.SetDefault(string(CorsAllowedMethods), []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete})
	viper.SetDefault(string(CorsAllowedHeaders), []string{"*"})
	viper.SetDefault(string(CorsAllowCredentials), true)
	viper.SetDefault(string(CorsMaxAge), 600)
	viper.SetDefault(string(APIRequestTimeout), "120s")
	viper.SetDefault(string(APIRequestMaxTimeout), "10m")
	viper.SetDefault(string(LedgerType), "ethereum")

	// Re-apply the defaults of every key registered so far, so plugin
	// prefixes registered before a config read keep their defaults
	for key, defValue := range root.defaults {
		viper.SetDefault(key, defValue)
	}

	i18n.SetLang(GetString(Lang))
}

// ReadConfig initializes the config, reading values from the environment
// (DOCANCHOR_ prefixed) over an optional yaml config file
func ReadConfig(cfgFile string) error {
	Reset()

	// Set precedence order for reading config location
	viper.SetEnvPrefix("docanchor")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetConfigType("yaml")
	if cfgFile != "" {
		f, err := os.Open(cfgFile)
		if err == nil {
			defer f.Close()
			err = viper.ReadConfig(f)
		}
		return err
	}
	viper.SetConfigName("docanchor.relay")
	viper.AddConfigPath("/etc/docanchor/")
	viper.AddConfigPath("$HOME/.docanchor")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
		// The config file is optional - the whole surface can be set from the environment
		err = nil
	}
	return err
}

var root *configPrefix = &configPrefix{
	keys:     map[string]bool{}, // All keys go here, including those defined in sub prefixes
	defaults: map[string]interface{}{},
}

// ark adds a root key, used to define the keys that are used within the core
func ark(k string) RootKey {
	root.AddKnownKey(k)
	return RootKey(k)
}

// configPrefix is the main config structure passed to plugins, and used for root to wrap viper
type configPrefix struct {
	prefix   string
	keys     map[string]bool
	defaults map[string]interface{} // Survives Reset, which re-applies them to viper
}

// NewPluginConfig creates a new plugin configuration object, at the specified prefix
func NewPluginConfig(prefix string) Prefix {
	if !strings.HasSuffix(prefix, ".") {
		prefix = prefix + "."
	}
	return &configPrefix{
		prefix:   prefix,
		keys:     root.keys,
		defaults: root.defaults,
	}
}

func (c *configPrefix) prefixKey(k string) string {
	key := c.prefix + k
	if !c.keys[key] {
		panic(fmt.Sprintf("Undefined configuration key '%s'", key))
	}
	return key
}

func (c *configPrefix) SubPrefix(suffix string) Prefix {
	return &configPrefix{
		prefix:   c.prefix + suffix + ".",
		keys:     root.keys,
		defaults: root.defaults,
	}
}

func (c *configPrefix) AddKnownKey(k string, defValue ...interface{}) {
	key := c.prefix + k
	if len(defValue) == 1 {
		c.defaults[key] = defValue[0]
	} else if len(defValue) > 0 {
		c.defaults[key] = defValue
	}
	if defValue, ok := c.defaults[key]; ok {
		viper.SetDefault(key, defValue)
	}
	c.keys[key] = true
}

// GetString gets a configuration string
func GetString(key RootKey) string {
	return root.GetString(string(key))
}
func (c *configPrefix) GetString(key string) string {
	return viper.GetString(c.prefixKey(key))
}

// GetStringSlice gets a configuration string array
func GetStringSlice(key RootKey) []string {
	return root.GetStringSlice(string(key))
}
func (c *configPrefix) GetStringSlice(key string) []string {
	return viper.GetStringSlice(c.prefixKey(key))
}

// GetBool gets a configuration bool
func GetBool(key RootKey) bool {
	return root.GetBool(string(key))
}
func (c *configPrefix) GetBool(key string) bool {
	return viper.GetBool(c.prefixKey(key))
}

// GetUint gets a configuration uint
func GetUint(key RootKey) uint {
	return root.GetUint(string(key))
}
func (c *configPrefix) GetUint(key string) uint {
	return viper.GetUint(c.prefixKey(key))
}

// GetInt gets a configuration int
func GetInt(key RootKey) int {
	return root.GetInt(string(key))
}
func (c *configPrefix) GetInt(key string) int {
	return viper.GetInt(c.prefixKey(key))
}

// GetInt64 gets a configuration int64
func GetInt64(key RootKey) int64 {
	return root.GetInt64(string(key))
}
func (c *configPrefix) GetInt64(key string) int64 {
	return viper.GetInt64(c.prefixKey(key))
}

// GetDuration gets a configuration duration - bare numbers are treated as milliseconds
func GetDuration(key RootKey) time.Duration {
	return root.GetDuration(string(key))
}
func (c *configPrefix) GetDuration(key string) time.Duration {
	return parseDuration(viper.GetString(c.prefixKey(key)))
}

func parseDuration(durationString string) time.Duration {
	if ms, err := strconv.ParseInt(durationString, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, _ := time.ParseDuration(durationString)
	return d
}

// GetStringMap gets a configuration map
func GetStringMap(key RootKey) map[string]interface{} {
	return root.GetStringMap(string(key))
}
func (c *configPrefix) GetStringMap(key string) map[string]interface{} {
	return viper.GetStringMap(c.prefixKey(key))
}

// Get gets a configuration in raw form
func Get(key RootKey) interface{} {
	return root.Get(string(key))
}
func (c *configPrefix) Get(key string) interface{} {
	return viper.Get(c.prefixKey(key))
}

// Set allows runtime setting of config (used in unit tests)
func Set(key RootKey, value interface{}) {
	root.Set(string(key), value)
}
func (c *configPrefix) Set(key string, value interface{}) {
	viper.Set(c.prefixKey(key), value)
}

// Resolve returns the fully qualified viper key for a prefixed key
func (c *configPrefix) Resolve(key string) string {
	return c.prefixKey(key)
}
