package fault

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorsWrapTheirCause(t *testing.T) {
	cause := errors.New("boom")

	require.ErrorIs(t, &TransportError{Err: cause}, cause)
	require.ErrorIs(t, &UnexpectedError{Err: cause}, cause)
	require.ErrorIs(t, &MalformedContent{Err: cause}, cause)
}

func TestHTTPErrorMessageCarriesStatus(t *testing.T) {
	err := &HTTPError{StatusCode: 404, Status: "404 Not Found"}
	require.Contains(t, err.Error(), "404 Not Found")
}

func TestIsTransport(t *testing.T) {
	require.True(t, IsTransport(&url.Error{
		Op:  "Get",
		URL: "http://example.com",
		Err: errors.New("connection refused"),
	}))
	require.False(t, IsTransport(errors.New("some application error")))
}
