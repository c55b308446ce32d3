package registry

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestsURL = "https://pypi.org/pypi/requests/json"

func newTestClient(t *testing.T) (*PyPIClient, *MockHTTPFetcher) {
	t.Helper()
	mock := NewMockHTTPFetcher()
	return NewPyPIClientWithFetcher(DefaultPyPIOptions(), mock), mock
}

func TestPyPIClient_Latest_Mock(t *testing.T) {
	fixture, err := os.ReadFile("testdata/pypi_requests.json")
	require.NoError(t, err)

	client, mock := newTestClient(t)
	mock.AddResponse(requestsURL, 200, string(fixture))

	version, err := client.Latest(context.Background(), "requests")
	require.NoError(t, err)
	assert.Equal(t, "2.31.0", version)
}

func TestPyPIClient_Latest_EachCallFetches(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddResponse(requestsURL, 200, `{"info":{"version":"1.0"},"releases":{"1.0":[{}]}}`)

	for i := 0; i < 2; i++ {
		version, err := client.Latest(context.Background(), "requests")
		require.NoError(t, err)
		assert.Equal(t, "1.0", version)
	}
	assert.Equal(t, 2, mock.Calls(requestsURL))
}

func TestPyPIClient_Latest_404(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Latest(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestPyPIClient_Latest_NoReleases(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddResponse("https://pypi.org/pypi/placeholder/json", 200, `{"info":{"version":"0.0.1"},"releases":{}}`)

	_, err := client.Latest(context.Background(), "placeholder")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestPyPIClient_Latest_NoUploadedFiles(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddResponse("https://pypi.org/pypi/placeholder/json", 200, `{"info":{"version":"0.2"},"releases":{"0.1":[],"0.2":[]}}`)

	_, err := client.Latest(context.Background(), "placeholder")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestPyPIClient_Latest_SomeReleasesEmpty(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddResponse(requestsURL, 200, `{"info":{"version":"2.0"},"releases":{"1.0":[],"2.0":[{"filename":"requests-2.0.tar.gz"}]}}`)

	version, err := client.Latest(context.Background(), "requests")
	require.NoError(t, err)
	assert.Equal(t, "2.0", version)
}

func TestPyPIClient_Latest_NetworkError(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddError(requestsURL, errors.New("connection refused"))

	_, err := client.Latest(context.Background(), "requests")
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, requestsURL, netErr.URL)
	assert.False(t, IsNotFound(err))
}

func TestPyPIClient_Latest_ServerError(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddResponse(requestsURL, 503, "unavailable")

	_, err := client.Latest(context.Background(), "requests")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 503, statusErr.StatusCode)
}

func TestPyPIClient_Latest_BadJSON(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddResponse(requestsURL, 200, "{not json")

	_, err := client.Latest(context.Background(), "requests")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "requests", parseErr.Package)
}

func TestPyPIClient_CustomBaseURL(t *testing.T) {
	mock := NewMockHTTPFetcher()
	client := NewPyPIClientWithFetcher(PyPIOptions{BaseURL: "https://mirror.example.com/"}, mock)
	mock.AddResponse("https://mirror.example.com/pypi/flask/json", 200, `{"info":{"version":"3.0.0"},"releases":{"3.0.0":[{}]}}`)

	version, err := client.Latest(context.Background(), "flask")
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", version)
}

func TestPyPIClient_Latest_CanceledContext(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddResponse(requestsURL, 200, `{"info":{"version":"1.0"},"releases":{"1.0":[{}]}}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Latest(ctx, "requests")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPyPIClient_Latest_EmptyName(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.Latest(context.Background(), "  ")
	assert.True(t, IsNotFound(err))
}
