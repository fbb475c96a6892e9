package valgoutil

import (
	"net"
	"net/url"
	"os"

	"github.com/cohesivestack/valgo"
)

func HostPortValidator(hostPort string, nameAndTitle ...string) valgo.Validator {
	return valgo.String(hostPort, nameAndTitle...).Passing(func(hp string) bool {
		_, _, err := net.SplitHostPort(hp)
		return err == nil
	}, "must be a network address of the form 'host:port'")
}

// HTTPURLValidator checks the value is an absolute http or https URL.
func HTTPURLValidator(rawURL string, nameAndTitle ...string) valgo.Validator {
	return valgo.String(rawURL, nameAndTitle...).Passing(func(rawURL string) bool {
		parsedURL, err := url.ParseRequestURI(rawURL)
		if err != nil {
			return false
		}

		switch parsedURL.Scheme {
		case "http", "https":
		default:
			return false
		}

		return parsedURL.Host != ""
	}, "must be a valid http or https URL")
}

// CORSOriginValidator accepts the "*" wildcard or an http(s) origin.
func CORSOriginValidator(origin string, nameAndTitle ...string) valgo.Validator {
	return valgo.String(origin, nameAndTitle...).Passing(func(origin string) bool {
		if origin == "*" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	}, "must be '*' or an origin of the form 'scheme://host[:port]'")
}

func FileExistsValidator(path string, nameAndTitle ...string) valgo.Validator {
	return valgo.String(path, nameAndTitle...).Passing(func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir()
	}, "must be an existing file")
}
