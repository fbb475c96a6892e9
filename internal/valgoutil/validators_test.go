package valgoutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cohesivestack/valgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPURLValidator(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{url: "https://api.platform.example.com/apis/project.openshift.io/v1/projectrequests", valid: true},
		{url: "http://localhost:8443", valid: true},
		{url: "nats://localhost:4222", valid: false},
		{url: "localhost:8443", valid: false},
		{url: "", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			v := valgo.Is(HTTPURLValidator(tt.url, "url"))
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestCORSOriginValidator(t *testing.T) {
	tests := []struct {
		origin string
		valid  bool
	}{
		{origin: "*", valid: true},
		{origin: "http://localhost:3000", valid: true},
		{origin: "https://app.example.com", valid: true},
		{origin: "app.example.com", valid: false},
		{origin: "", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			v := valgo.Is(CORSOriginValidator(tt.origin, "origin"))
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestHostPortValidator(t *testing.T) {
	assert.True(t, valgo.Is(HostPortValidator("localhost:5432", "hostPort")).Valid())
	assert.False(t, valgo.Is(HostPortValidator("localhost", "hostPort")).Valid())
}

func TestFileExistsValidator(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(file, []byte("pem"), 0o600))

	assert.True(t, valgo.Is(FileExistsValidator(file, "caCertFile")).Valid())
	assert.False(t, valgo.Is(FileExistsValidator(dir, "caCertFile")).Valid())
	assert.False(t, valgo.Is(FileExistsValidator(filepath.Join(dir, "missing.pem"), "caCertFile")).Valid())
}
