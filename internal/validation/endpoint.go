package validation

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	ErrEmptyURL          = errors.New("URL cannot be empty")
	ErrUnsupportedScheme = errors.New("URL must use http or https protocol")
	ErrMissingHost       = errors.New("URL must have a valid hostname")
	ErrForbiddenHost     = errors.New("host is not permitted")
)

// EndpointValidator checks the service endpoints and page links the client
// talks to or hands to the OS opener.
type EndpointValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewEndpointValidator creates a validator that only accepts public hosts.
func NewEndpointValidator() *EndpointValidator {
	return &EndpointValidator{
		MaxLength: 2048,
	}
}

// NewPermissiveEndpointValidator allows self-hosted and local endpoints.
func NewPermissiveEndpointValidator() *EndpointValidator {
	return &EndpointValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize returns the endpoint with surrounding whitespace and
// trailing slashes removed. Inputs without a scheme are treated as https.
func (v *EndpointValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", ErrEmptyURL
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", ErrUnsupportedScheme
	}
	if parsedURL.Host == "" {
		return "", ErrMissingHost
	}

	if err := v.validateHost(parsedURL.Hostname()); err != nil {
		return "", err
	}

	if strings.Contains(parsedURL.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	return strings.TrimRight(parsedURL.String(), "/"), nil
}

func (v *EndpointValidator) validateHost(hostname string) error {
	if hostname == "" {
		return ErrMissingHost
	}

	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("%w: localhost URLs are not permitted", ErrForbiddenHost)
	}

	if ip := net.ParseIP(hostname); ip != nil {
		if ip.IsUnspecified() || ip.Equal(net.IPv4bcast) {
			return fmt.Errorf("%w: %s", ErrForbiddenHost, hostname)
		}
		if !v.AllowPrivateIPs && isPrivateIP(ip) {
			return fmt.Errorf("%w: private IP addresses are not permitted", ErrForbiddenHost)
		}
	}

	return nil
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "127.0.0.1" ||
		hostname == "::1" ||
		strings.HasSuffix(hostname, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
}
