package netutil

import (
	"net"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

const maxDomainNameSize = 253

var ErrInvalidURI = errors.New("invalid uri")

// ParseHTTPURI parses value as an absolute http or https URI with a valid
// host. Hosts may be IP literals or registrable domain names.
func ParseHTTPURI(value string) (*url.URL, error) {
	parsed, err := url.Parse(value)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidURI, err.Error())
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.Wrapf(ErrInvalidURI, "unsupported scheme %q", parsed.Scheme)
	}

	hostname := parsed.Hostname()
	if len(hostname) == 0 {
		return nil, errors.Wrap(ErrInvalidURI, "host component missing")
	}

	if net.ParseIP(hostname) != nil {
		return parsed, nil
	}

	if err := ValidateDomainName(hostname); err != nil {
		return nil, errors.Wrap(ErrInvalidURI, err.Error())
	}
	return parsed, nil
}

// ValidateDomainName validates the string value as a domain name
func ValidateDomainName(value string) error {
	if len(value) == 0 {
		return errors.New("domain name is empty")
	}
	if len(value) > maxDomainNameSize {
		return errors.New("domain name length exceeds limit")
	}
	if _, err := idna.Lookup.ToASCII(value); err != nil {
		return errors.Wrap(err, "domain name is invalid")
	}
	return nil
}
