package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/docqa/internal/config"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var once sync.Once
var client *http.Client

// GetHttpClient returns the pooled client shared by the openai and genai
// strategies so model calls reuse connections.
func GetHttpClient() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Transport: customTransport,
			Timeout:   config.HttpClientTimeout,
		}
	})
	return client
}
