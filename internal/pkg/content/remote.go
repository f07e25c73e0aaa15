package content

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

type convertPayload struct {
	Body string `json:"body"`
}

type remoteConverter struct {
	client *resty.Client
}

// NewRemoteConverter 调用外部转换服务，约定 POST {baseURL}/to-lite 与 {baseURL}/to-rich
// 服务以 422 表示输入畸形
func NewRemoteConverter(baseURL string, timeout time.Duration) Converter {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	return &remoteConverter{client: client}
}

func (s *remoteConverter) ToMarkupLite(ctx context.Context, rich string) (string, error) {
	if err := checkWellFormed(rich); err != nil {
		return "", err
	}
	return s.call(ctx, "/to-lite", rich)
}

func (s *remoteConverter) ToRich(ctx context.Context, lite string) (string, error) {
	if err := checkWellFormed(lite); err != nil {
		return "", err
	}
	return s.call(ctx, "/to-rich", lite)
}

func (s *remoteConverter) call(ctx context.Context, path, body string) (string, error) {
	var out convertPayload
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(convertPayload{Body: body}).
		SetResult(&out).
		Post(path)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", path, err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnprocessableEntity:
		return "", fmt.Errorf("%w: %s", ErrMalformed, resp.String())
	case resp.IsError():
		return "", fmt.Errorf("convert %s: unexpected status %d", path, resp.StatusCode())
	}
	return out.Body, nil
}
