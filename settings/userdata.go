// Package settings holds persisted user data, kept in a yaml file beside
// the executable.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/fail"
	"github.com/joshyorko/sstui/subscription"
	"github.com/joshyorko/sstui/xviper"
)

const DefaultLocalPort = 10808

type Selection struct {
	Group  int `yaml:"group"`
	Server int `yaml:"server"`
}

type UserData struct {
	LocalPort      uint16                `yaml:"local_port"`
	LanSupport     bool                  `yaml:"lan_support"`
	SelectedServer *Selection            `yaml:"selected_server"`
	Fingerprint    string                `yaml:"selected_fingerprint,omitempty"`
	ServerGroups   []*subscription.Group `yaml:"server_groups"`
	SslocalPath    string                `yaml:"sslocal_path,omitempty"`
	ExtraArgs      string                `yaml:"extra_args,omitempty"`
	Proxy          string                `yaml:"proxy,omitempty"`
	UdpRelay       bool                  `yaml:"udp_relay"`
	Verbose        bool                  `yaml:"verbose"`

	filename string
}

func Defaults() *UserData {
	return &UserData{
		LocalPort:    DefaultLocalPort,
		ServerGroups: []*subscription.Group{},
		UdpRelay:     true,
		Verbose:      true,
	}
}

// Load reads user data from filename. Missing or malformed file silently
// gives defaults. SSTUI_PROXY, SSTUI_LOCAL_PORT, SSTUI_UDP_RELAY and
// SSTUI_VERBOSE environment variables override stored values.
func Load(filename string) *UserData {
	result := Defaults()
	result.filename = filename
	if err := xviper.Open(filename); err != nil {
		common.Debug("Using default user data, %q not usable: %v", filename, err)
	} else if err := xviper.Decode(result); err != nil {
		common.Debug("Using default user data, %q malformed: %v", filename, err)
		result = Defaults()
		result.filename = filename
	}
	if proxy := xviper.GetString("proxy"); len(proxy) > 0 {
		result.Proxy = proxy
	}
	if xviper.IsSet("local_port") {
		if port := xviper.GetInt("local_port"); port > 0 && port <= 0xffff {
			result.LocalPort = uint16(port)
		}
	}
	if xviper.IsSet("udp_relay") {
		result.UdpRelay = xviper.GetBool("udp_relay")
	}
	if xviper.IsSet("verbose") {
		result.Verbose = xviper.GetBool("verbose")
	}
	result.normalize()
	return result
}

func (it *UserData) normalize() {
	if it.LocalPort == 0 {
		it.LocalPort = DefaultLocalPort
	}
	kept := make([]*subscription.Group, 0, len(it.ServerGroups))
	for _, group := range it.ServerGroups {
		if group != nil {
			kept = append(kept, group)
		}
	}
	it.ServerGroups = kept
	if _, _, ok := it.Selected(); !ok {
		it.SelectedServer = nil
	}
}

func (it *UserData) Filename() string {
	return it.filename
}

// Save writes through a temp file and rename.
func (it *UserData) Save() (err error) {
	defer fail.Around(&err)

	fail.On(len(it.filename) == 0, "User data has no filename.")
	blob, err := yaml.Marshal(it)
	fail.Fast(err)
	fail.Fast(os.MkdirAll(filepath.Dir(it.filename), 0o755))
	partial := fmt.Sprintf("%s.tmp%d", it.filename, os.Getpid())
	fail.Fast(os.WriteFile(partial, blob, 0o600))
	err = os.Rename(partial, it.filename)
	if err != nil {
		os.Remove(partial)
	}
	fail.On(err != nil, "Could not save %q, reason: %w", it.filename, err)
	common.Trace("Saved user data to %q.", it.filename)
	return nil
}

// Selected returns currently selected group and server.
func (it *UserData) Selected() (*subscription.Group, *subscription.Server, bool) {
	if it.SelectedServer == nil {
		return nil, nil, false
	}
	at := *it.SelectedServer
	if at.Group < 0 || at.Group >= len(it.ServerGroups) {
		return nil, nil, false
	}
	group := it.ServerGroups[at.Group]
	if at.Server < 0 || at.Server >= len(group.Servers) {
		return nil, nil, false
	}
	return group, &group.Servers[at.Server], true
}

func (it *UserData) Select(group, server int) bool {
	previous := it.SelectedServer
	it.SelectedServer = &Selection{Group: group, Server: server}
	_, selected, ok := it.Selected()
	if !ok {
		it.SelectedServer = previous
		return false
	}
	it.Fingerprint = fmt.Sprintf("%016x", selected.Fingerprint())
	return true
}

func (it *UserData) ClearSelection() {
	it.SelectedServer = nil
	it.Fingerprint = ""
}

func (it *UserData) FindGroup(name string) (int, *subscription.Group) {
	for index, group := range it.ServerGroups {
		if strings.EqualFold(group.Name, name) {
			return index, group
		}
	}
	return -1, nil
}

// AddGroup appends group, or replaces an existing one with same name.
func (it *UserData) AddGroup(group *subscription.Group) {
	if index, _ := it.FindGroup(group.Name); index >= 0 {
		it.ServerGroups[index] = group
		it.Reselect()
		return
	}
	it.ServerGroups = append(it.ServerGroups, group)
}

func (it *UserData) RemoveGroup(name string) bool {
	index, _ := it.FindGroup(name)
	if index < 0 {
		return false
	}
	it.ServerGroups = append(it.ServerGroups[:index], it.ServerGroups[index+1:]...)
	if it.SelectedServer != nil {
		switch {
		case it.SelectedServer.Group == index:
			it.ClearSelection()
		case it.SelectedServer.Group > index:
			it.SelectedServer.Group--
		}
	}
	return true
}

// Reselect repairs selection after group contents changed, following the
// fingerprint of previously selected server.
func (it *UserData) Reselect() {
	if len(it.Fingerprint) == 0 || it.SelectedServer == nil {
		return
	}
	wanted, err := strconv.ParseUint(it.Fingerprint, 16, 64)
	if err != nil {
		it.ClearSelection()
		return
	}
	if _, server, ok := it.Selected(); ok && server.Fingerprint() == wanted {
		return
	}
	for groupIndex, group := range it.ServerGroups {
		if serverIndex := group.IndexOf(wanted); serverIndex >= 0 {
			it.SelectedServer = &Selection{Group: groupIndex, Server: serverIndex}
			return
		}
	}
	it.ClearSelection()
}
