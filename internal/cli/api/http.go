package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CorrelationHeader carries the pre-upload id of a staged record.
const CorrelationHeader = "X-Correlation-Id"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Client — шлюз к бэкенду библиотеки изображений. Каждый метод выполняет ровно один HTTP-вызов.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

// NewClient creates a gateway for baseURL. A nil logger disables logging.
func NewClient(baseURL string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the backend base URL without trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// do отправляет запрос и читает тело целиком. Не-2xx превращается в *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, header http.Header) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: string(b)}
	}
	return b, nil
}

// getJSON performs GET and decodes the answer into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	b, err := c.do(ctx, http.MethodGet, path, nil, "", nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return shapeError("GET "+path, err)
	}
	return nil
}

// postJSON sends payload as JSON. If out is nil the answer body is ignored.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(b), "application/json", nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return shapeError("POST "+path, err)
	}
	return nil
}

// postMultipart отправляет multipart/form-data: один файл и набор текстовых полей.
func (c *Client) postMultipart(ctx context.Context, path, fileField, fileName, fileType string, data []byte, fields map[string]string, header http.Header) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(fileField), quoteEscaper.Replace(fileName)))
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	h.Set("Content-Type", fileType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), header)
}
