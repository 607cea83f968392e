// Package subscription models server groups fed from a subscription link and
// understands the two content formats those links serve.
package subscription

import (
	"fmt"
	"net"
	"strconv"

	"github.com/dchest/siphash"
	"github.com/google/uuid"
)

const (
	fingerprintKey0 = 0x7373747569736970
	fingerprintKey1 = 0x6b65797374726f6e
)

type Format string

const (
	FormatUnknown Format = ""
	FormatJSON    Format = "ss-json"
	FormatURL     Format = "ss-url"
)

type Server struct {
	Remarks    string `yaml:"remarks" json:"remarks"`
	Server     string `yaml:"server" json:"server"`
	ServerPort uint16 `yaml:"server_port" json:"server_port"`
	Method     string `yaml:"method" json:"method"`
	Password   string `yaml:"password" json:"password"`
}

func (it Server) Address() string {
	return net.JoinHostPort(it.Server, strconv.Itoa(int(it.ServerPort)))
}

func (it Server) Title() string {
	if len(it.Remarks) > 0 {
		return it.Remarks
	}
	return it.Address()
}

// Fingerprint identifies server by its connection parameters, so that
// selection survives reordering on subscription refresh.
func (it Server) Fingerprint() uint64 {
	key := fmt.Sprintf("%s\x00%s\x00%d\x00%s", it.Method, it.Server, it.ServerPort, it.Password)
	return siphash.Hash(fingerprintKey0, fingerprintKey1, []byte(key))
}

func (it Server) Valid() bool {
	return len(it.Server) > 0 && it.ServerPort > 0 && len(it.Method) > 0
}

type Group struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	UpdateURL string   `yaml:"update_url" json:"update_url"`
	Format    Format   `yaml:"update_type,omitempty" json:"update_type,omitempty"`
	Servers   []Server `yaml:"ss_servers" json:"ss_servers"`
}

func NewGroup(name, updateURL string) *Group {
	return &Group{
		ID:        uuid.NewString(),
		Name:      name,
		UpdateURL: updateURL,
		Servers:   []Server{},
	}
}

// IndexOf finds server by fingerprint, -1 when missing.
func (it *Group) IndexOf(fingerprint uint64) int {
	for index, server := range it.Servers {
		if server.Fingerprint() == fingerprint {
			return index
		}
	}
	return -1
}
