package httpclient

import (
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	platformerrors "stellar-client-go/internal/platform/errors"
)

// ErrorBody is the error envelope both backends use for non-2xx responses.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

// ErrorMessage extracts the upstream message from a failed response. It falls
// back to the raw body and then to the status text.
func ErrorMessage(resp *resty.Response) string {
	if resp == nil {
		return ""
	}
	body := resp.Body()
	var eb ErrorBody
	if len(body) > 0 && sonic.Unmarshal(body, &eb) == nil {
		switch {
		case eb.Message != "":
			return eb.Message
		case eb.Error != "":
			return eb.Error
		case eb.Msg != "":
			return eb.Msg
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return "request failed"
}

// Check folds a resty result into one error shape: transport failures and
// non-2xx responses both become remote errors carrying the upstream message.
func Check(op string, resp *resty.Response, err error) error {
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode()
		}
		return platformerrors.Remote(op, status, err.Error(), err)
	}
	if resp.IsError() {
		return platformerrors.Remote(op, resp.StatusCode(), ErrorMessage(resp), nil)
	}
	return nil
}
