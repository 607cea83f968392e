package cloud

import (
	"net/url"
	"os"
	"time"
)

func isFile(location string) bool {
	stat, err := os.Stat(location)
	return err == nil && stat.Mode().IsRegular()
}

// ReadFile loads resource either from local file or from http(s) link.
func ReadFile(resource, proxy string) ([]byte, error) {
	if isFile(resource) {
		return os.ReadFile(resource)
	}
	link, err := url.ParseRequestURI(resource)
	if err != nil {
		return os.ReadFile(resource)
	}
	if link.Scheme == "file" || link.Scheme == "" || isFile(link.Path) {
		return os.ReadFile(link.Path)
	}
	client, err := NewUnsafeClient("", proxy)
	if err != nil {
		return nil, err
	}
	response := client.WithTimeout(60 * time.Second).Uncritical().Get(client.NewRequest(resource))
	if response.Err != nil {
		return nil, response.Err
	}
	return response.Body, nil
}
