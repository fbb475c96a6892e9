package provision

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// TLSConfig configures TLS for connections to the platform API.
type TLSConfig struct {
	CACertFile         string
	InsecureSkipVerify bool // not intended for production environments
}

// Config holds the platform endpoint and the credential sent with every
// request.
type Config struct {
	URL   string
	Token string // sent verbatim as the Authorization header
	TLS   *TLSConfig
}

// Response is the raw platform response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Option configures a Client.
type Option func(c *Client)

// WithHTTPClient sets the HTTP client used to call the platform. TLS settings
// from the Config are ignored when a custom client is provided.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client creates namespaces on the platform with a single synchronous request
// per call. Requests are not retried.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("provision url required")
	}

	c := &Client{
		url:   cfg.URL,
		token: cfg.Token,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		httpClient, err := newHTTPClient(cfg.TLS)
		if err != nil {
			return nil, err
		}
		c.httpClient = httpClient
	}

	return c, nil
}

// CreateNamespace posts the NamespaceRequest to the platform and returns the
// response status code and body as received.
func (c *Client) CreateNamespace(ctx context.Context, req NamespaceRequest) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("marshal namespace request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create namespace request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.token)

	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("send namespace request: %w", err)
	}
	defer httpRes.Body.Close()

	resBody, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read namespace response: %w", err)
	}

	return Response{
		StatusCode: httpRes.StatusCode,
		Body:       resBody,
	}, nil
}

func newHTTPClient(tlsCfg *TLSConfig) (*http.Client, error) {
	client := &http.Client{}

	if tlsCfg == nil {
		return client, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: tlsCfg.InsecureSkipVerify, //nolint:gosec
	}

	if tlsCfg.CACertFile != "" {
		caCert, err := os.ReadFile(tlsCfg.CACertFile)
		if err != nil {
			return nil, err
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to append ca cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	client.Transport = &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: tlsConfig,
	}
	return client, nil
}
