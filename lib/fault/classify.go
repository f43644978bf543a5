package fault

import (
	"errors"
	"net"
	"net/url"
)

// IsTransport reports whether err originated below the HTTP layer
// (DNS resolution, connection setup, timeout).
func IsTransport(err error) bool {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}
