package api

import (
	"io"
	"net/url"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// mockHTTPClient is a mock implementation of tls_client.HttpClient for testing.
// It records every request it receives.
type mockHTTPClient struct {
	doFunc func(req *fhttp.Request) (*fhttp.Response, error)

	mu       sync.Mutex
	requests []*fhttp.Request
	bodies   []string
}

func (m *mockHTTPClient) GetCookies(u *url.URL) []*fhttp.Cookie {
	return nil
}

func (m *mockHTTPClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}

func (m *mockHTTPClient) SetCookieJar(jar fhttp.CookieJar) {}

func (m *mockHTTPClient) GetCookieJar() fhttp.CookieJar {
	return nil
}

func (m *mockHTTPClient) SetProxy(proxyUrl string) error {
	return nil
}

func (m *mockHTTPClient) GetProxy() string {
	return ""
}

func (m *mockHTTPClient) SetFollowRedirect(followRedirect bool) {}

func (m *mockHTTPClient) GetFollowRedirect() bool {
	return false
}

func (m *mockHTTPClient) CloseIdleConnections() {}

func (m *mockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body string
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	m.mu.Unlock()

	return m.doFunc(req)
}

func (m *mockHTTPClient) Get(url string) (*fhttp.Response, error) {
	return nil, nil
}

func (m *mockHTTPClient) Head(url string) (*fhttp.Response, error) {
	return nil, nil
}

func (m *mockHTTPClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return nil, nil
}

func (m *mockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker {
	return nil
}

func (m *mockHTTPClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// newMockHTTPClient returns a client that always answers with body and statusCode
func newMockHTTPClient(body string, statusCode int) *mockHTTPClient {
	return &mockHTTPClient{
		doFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			return &fhttp.Response{
				StatusCode: statusCode,
				Status:     fhttp.StatusText(statusCode),
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     make(fhttp.Header),
			}, nil
		},
	}
}

// newMockHTTPClientWithError returns a client whose round trips fail with err
func newMockHTTPClientWithError(err error) *mockHTTPClient {
	return &mockHTTPClient{
		doFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			return nil, err
		},
	}
}
