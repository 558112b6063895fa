package matcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	requestIDHeader = "X-Request-ID"
)

// timestampLayouts are tried in order. The service emits naive ISO timestamps,
// which are read in the local zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (c *Client) getJSON(ctx context.Context, op, fallback, path string, target any) error {
	data, err := c.do(ctx, op, fallback, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	return decodeResponse(op, fallback, data, target)
}

func (c *Client) postJSON(ctx context.Context, op, fallback, path string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", op, err)
	}

	data, err := c.do(ctx, op, fallback, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	return decodeResponse(op, fallback, data, target)
}

// do performs the request and returns the decompressed body of a successful response.
func (c *Client) do(ctx context.Context, op, fallback, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.APIURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)

	resp, err := c.request(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Fallback: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, &NetworkError{Op: op, Status: resp.StatusCode, Fallback: fallback, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("bad status from matching service",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &NetworkError{
			Op:       op,
			Status:   resp.StatusCode,
			Detail:   errorDetail(data),
			Fallback: fallback,
		}
	}

	return data, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set(requestIDHeader, uuid.New().String())

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}

// errorDetail extracts the "detail" field of an error body. Validation failures
// carry a list of objects with a "msg" field instead of a string.
func errorDetail(data []byte) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	switch detail := body.Detail.(type) {
	case string:
		return detail
	case []any:
		msgs := make([]string, 0, len(detail))
		for _, item := range detail {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok && msg != "" {
					msgs = append(msgs, msg)
				}
			}
		}
		return strings.Join(msgs, "; ")
	default:
		return ""
	}
}

func decodeResponse(op, fallback string, data []byte, target any) error {
	if target == nil {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ParseError{Op: op, Fallback: fallback, Err: err}
	}

	if err := decode(raw, target); err != nil {
		return &ParseError{Op: op, Fallback: fallback, Err: err}
	}

	return nil
}

// decode maps generic JSON values onto typed records using their json tags.
func decode(input, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata:   nil,
		Result:     target,
		TagName:    "json",
		DecodeHook: timestampHook,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

func timestampHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) || from.Kind() != reflect.String {
		return data, nil
	}

	return ParseTimestamp(data.(string))
}

// ParseTimestamp parses the timestamp formats emitted by the service. An empty
// string yields the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range timestampLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp %q", s)
}
