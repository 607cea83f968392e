package subscription

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

const scheme = "ss://"

var (
	ErrUnknownContent = errors.New("unknown subscription content")
	ErrNoServers      = errors.New("subscription has no servers")
	ErrInvalidURL     = errors.New("invalid ss url")
)

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(text string) ([]byte, error) {
	text = strings.Join(strings.Fields(text), "")
	var last error
	for _, encoding := range encodings {
		blob, err := encoding.DecodeString(text)
		if err == nil {
			return blob, nil
		}
		last = err
	}
	return nil, last
}

// Classify sniffs content: bracketed text is JSON, base64 of ss:// links is
// a URL list, anything else is unknown.
func Classify(content []byte) (Format, error) {
	text := strings.TrimSpace(string(content))
	if len(text) > 1 && strings.ContainsAny(text[:1], "[{") && strings.ContainsAny(text[len(text)-1:], "]}") {
		return FormatJSON, nil
	}
	if blob, err := decodeBase64(text); err == nil && strings.HasPrefix(strings.TrimSpace(string(blob)), scheme) {
		return FormatURL, nil
	}
	return FormatUnknown, ErrUnknownContent
}

// Decode parses content in given format into server list.
func Decode(format Format, content []byte) ([]Server, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(content)
	case FormatURL:
		return decodeURLs(content)
	default:
		return nil, ErrUnknownContent
	}
}

type sip008 struct {
	Servers []Server `json:"servers"`
}

func decodeJSON(content []byte) ([]Server, error) {
	clean := jsonc.ToJSON(content)
	trimmed := strings.TrimSpace(string(clean))
	servers := []Server{}
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(clean, &servers); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownContent, err)
		}
		return servers, nil
	}
	envelope := sip008{}
	if err := json.Unmarshal(clean, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownContent, err)
	}
	if len(envelope.Servers) > 0 {
		return envelope.Servers, nil
	}
	single := Server{}
	if err := json.Unmarshal(clean, &single); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownContent, err)
	}
	if single.Valid() {
		servers = append(servers, single)
	}
	return servers, nil
}

func decodeURLs(content []byte) ([]Server, error) {
	blob, err := decodeBase64(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownContent, err)
	}
	servers := []Server{}
	scanner := bufio.NewScanner(strings.NewReader(string(blob)))
	for scanner.Scan() {
		server, err := ParseURL(scanner.Text())
		if err != nil {
			continue
		}
		servers = append(servers, server)
	}
	return servers, scanner.Err()
}

// ParseURL understands both ss://base64(method:password@host:port)#remarks
// and ss://base64(method:password)@host:port#remarks forms.
func ParseURL(link string) (Server, error) {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, scheme) {
		return Server{}, fmt.Errorf("%w: %q", ErrInvalidURL, link)
	}
	body, remarks, _ := strings.Cut(link[len(scheme):], "#")
	if decoded, err := url.PathUnescape(remarks); err == nil {
		remarks = decoded
	}
	if decoded, err := url.PathUnescape(body); err == nil {
		body = decoded
	}
	body, _, _ = strings.Cut(body, "/?")
	body, _, _ = strings.Cut(body, "?")

	var userinfo, hostport string
	if at := strings.LastIndex(body, "@"); at > 0 {
		if blob, err := decodeBase64(body[:at]); err == nil {
			userinfo = string(blob)
		} else {
			userinfo = body[:at]
		}
		hostport = body[at+1:]
	} else {
		blob, err := decodeBase64(body)
		if err != nil {
			return Server{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
		plain := string(blob)
		at := strings.LastIndex(plain, "@")
		if at < 0 {
			return Server{}, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, link)
		}
		userinfo, hostport = plain[:at], plain[at+1:]
	}

	method, password, ok := strings.Cut(userinfo, ":")
	colon := strings.LastIndex(hostport, ":")
	if !ok || colon < 0 {
		return Server{}, fmt.Errorf("%w: %q", ErrInvalidURL, link)
	}
	port, err := strconv.ParseUint(hostport[colon+1:], 10, 16)
	if err != nil {
		return Server{}, fmt.Errorf("%w: bad port in %q", ErrInvalidURL, link)
	}
	server := Server{
		Remarks:    remarks,
		Server:     strings.Trim(hostport[:colon], "[]"),
		ServerPort: uint16(port),
		Method:     method,
		Password:   password,
	}
	if !server.Valid() {
		return Server{}, fmt.Errorf("%w: %q", ErrInvalidURL, link)
	}
	return server, nil
}

// URL renders server back into ss:// form.
func (it Server) URL() string {
	plain := fmt.Sprintf("%s:%s@%s", it.Method, it.Password, it.Address())
	link := scheme + base64.RawStdEncoding.EncodeToString([]byte(plain))
	if len(it.Remarks) > 0 {
		link += "#" + url.PathEscape(it.Remarks)
	}
	return link
}
