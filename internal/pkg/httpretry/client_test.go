package httpretry

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedDoer struct {
	calls     int
	responses []*http.Response
	errs      []error
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	i := d.calls
	d.calls++
	if i < len(d.errs) && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	return d.responses[i], nil
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader("body"))}
}

func TestRetryClient_ZeroRetriesIsSingleAttempt(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{response(http.StatusServiceUnavailable)}}
	rc := NewRetryClient(doer, 0)

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/x", nil)
	resp, err := rc.Do(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, 1, doer.calls)
}

func TestRetryClient_ZeroRetriesNetworkError(t *testing.T) {
	netErr := errors.New("connection refused")
	doer := &scriptedDoer{errs: []error{netErr}}
	rc := NewRetryClient(doer, 0)

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/x", nil)
	_, err := rc.Do(req)

	assert.ErrorIs(t, err, netErr)
	assert.Equal(t, 1, doer.calls)
}

func TestRetryClient_RetriesRetryableStatus(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{
		response(http.StatusTooManyRequests),
		response(http.StatusOK),
	}}
	rc := NewRetryClient(doer, 2)
	rc.baseDelay = time.Millisecond
	rc.maxDelay = time.Millisecond

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/x", nil)
	resp, err := rc.Do(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, doer.calls)
}

func TestRetryClient_DoesNotRetryClientErrors(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{response(http.StatusNotFound)}}
	rc := NewRetryClient(doer, 3)

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/x", nil)
	resp, err := rc.Do(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, doer.calls)
}

func TestNewRetryClient_NegativeRetries(t *testing.T) {
	rc := NewRetryClient(nil, -1)
	assert.Equal(t, 0, rc.MaxRetries())
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, isRetryableStatus(code), code)
	}
	for _, code := range []int{200, 201, 400, 401, 403, 404} {
		assert.False(t, isRetryableStatus(code), code)
	}
}
