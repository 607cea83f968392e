// Package xviper keeps one viper instance for the user data file and
// serializes all access to it.
package xviper

import (
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const EnvPrefix = `SSTUI`

type config struct {
	sync.Mutex
	store *viper.Viper
}

var active = &config{store: fresh()}

func fresh() *viper.Viper {
	store := viper.New()
	store.SetConfigType("yaml")
	store.SetEnvPrefix(EnvPrefix)
	store.AutomaticEnv()
	return store
}

// Open binds configuration to filename and reads it. Returned error tells
// that file was missing or malformed; values from environment still work.
func Open(filename string) error {
	active.Lock()
	defer active.Unlock()

	active.store = fresh()
	active.store.SetConfigFile(filename)
	return active.store.ReadInConfig()
}

// Decode fills target from loaded values using its yaml tags. Fields that
// are not present keep their current values.
func Decode(target interface{}) error {
	active.Lock()
	defer active.Unlock()
	return active.store.Unmarshal(target, func(decoder *mapstructure.DecoderConfig) {
		decoder.TagName = "yaml"
	})
}

func IsSet(key string) bool {
	active.Lock()
	defer active.Unlock()
	return active.store.IsSet(key)
}

func GetString(key string) string {
	active.Lock()
	defer active.Unlock()
	return active.store.GetString(key)
}

func GetBool(key string) bool {
	active.Lock()
	defer active.Unlock()
	return active.store.GetBool(key)
}

func GetInt(key string) int {
	active.Lock()
	defer active.Unlock()
	return active.store.GetInt(key)
}
