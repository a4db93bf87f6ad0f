package dispatch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"walletclient/app/config"
	"walletclient/pkg/log"
	"walletclient/pkg/metrics"
	"walletclient/pkg/protocol"
)

const (
	requestIDHeader   = "X-Request-Id"
	contentTypeHeader = "Content-Type"
	acceptHeader      = "Accept"
	jsonContentType   = "application/json"

	maxBodySize = 8 << 20
)

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPatch:   true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// Manager issues one HTTP call per Dispatch and turns every outcome into a
// *protocol.Response or a *protocol.Error.
type Manager struct {
	BaseURL string
	Timeout time.Duration
	Client  Doer
	Metrics *metrics.Collector
}

// NewHTTPClient builds the backend HTTP client. It keeps session cookies in a
// jar and only skips TLS verification when the config explicitly says so.
func NewHTTPClient(cfg config.Server) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a cookie jar")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		log.Warnw("TLS certificate verification is disabled", "baseUrl", cfg.BaseURL)
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{
		Jar:       jar,
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}

func NewManager(cfg config.Server, collector *metrics.Collector) (*Manager, error) {
	client, err := NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Client:  client,
		Metrics: collector,
	}, nil
}

func (m *Manager) Dispatch(
	ctx context.Context, method, path string, body interface{}, opts *Options,
) (*protocol.Response, error) {
	if path == "" {
		return nil, protocol.BadRequest("empty request path")
	}
	method = strings.ToUpper(method)
	if !allowedMethods[method] {
		return nil, protocol.NotImplemented("request method %q is not supported", method)
	}

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	req, err := m.newRequest(ctx, method, path, body, opts)
	if err != nil {
		return nil, protocol.BadRequest("failed to build a request: %s", err).SetInternal(err)
	}
	requestID := ksuid.New().String()
	req.Header.Set(requestIDHeader, requestID)

	logger := log.ExtractLogger(ctx).With("requestId", requestID, "method", method, "path", path)
	start := time.Now()

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		m.Metrics.ObserveRequest(method, protocol.CodeUnknown, time.Since(start))
		logger.Warnw("backend request failed", "error", err.Error())
		return nil, protocol.Unknown(errors.Wrap(err, "failed to perform a request to the backend"))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	if err != nil {
		m.Metrics.ObserveRequest(method, protocol.CodeUnknown, elapsed)
		logger.Warnw("failed to read a backend response", "status", resp.StatusCode, "error", err.Error())
		return nil, protocol.Unknown(errors.Wrap(err, "failed to read a response body from the backend"))
	}
	m.Metrics.ObserveRequest(method, resp.StatusCode, elapsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warnw("backend responded with an error", "status", resp.StatusCode, "latency", elapsed)
		return nil, protocol.Transport(resp.StatusCode, errorMessage(raw))
	}
	logger.Debugw("backend request completed", "status", resp.StatusCode, "latency", elapsed)

	out := &protocol.Response{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
	}
	if len(raw) > 0 {
		out.Data = json.RawMessage(raw)
	}
	return out, nil
}

func (m *Manager) newRequest(
	ctx context.Context, method, path string, body interface{}, opts *Options,
) (*http.Request, error) {
	u := strings.TrimRight(m.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if opts != nil && len(opts.Params) > 0 {
		u += "?" + EncodeParams(opts.Params).Encode()
	}

	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, errors.Wrap(err, "failed to encode a request body")
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a request")
	}
	req.Header.Set(acceptHeader, jsonContentType)
	if body != nil {
		req.Header.Set(contentTypeHeader, jsonContentType)
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

// EncodeParams stringifies query parameters.
func EncodeParams(params map[string]interface{}) url.Values {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		switch v := params[k].(type) {
		case nil:
		case string:
			values.Add(k, v)
		case bool:
			values.Add(k, strconv.FormatBool(v))
		case int:
			values.Add(k, strconv.Itoa(v))
		case int64:
			values.Add(k, strconv.FormatInt(v, 10))
		case uint64:
			values.Add(k, strconv.FormatUint(v, 10))
		case float64:
			values.Add(k, strconv.FormatFloat(v, 'f', -1, 64))
		case []string:
			for _, s := range v {
				values.Add(k, s)
			}
		case []int:
			for _, i := range v {
				values.Add(k, strconv.Itoa(i))
			}
		default:
			values.Add(k, fmt.Sprint(v))
		}
	}
	return values
}

func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	if text = strings.TrimSpace(text); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// errorMessage pulls a message out of a backend error body; an empty result
// makes protocol.Transport fall back to the status text.
func errorMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	if len(body.Error) == 0 {
		return ""
	}

	var nested errorBody
	if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	var text string
	if err := json.Unmarshal(body.Error, &text); err == nil {
		return text
	}
	return ""
}
