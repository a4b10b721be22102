package mock

import (
	"io"
	"net/http"
	"strings"

	"github.com/reugn/go-schedule/job"
)

type HTTPHandlerMock struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m HTTPHandlerMock) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

var (
	HTTPHandlerOk  job.HTTPHandler
	HTTPHandlerErr job.HTTPHandler
)

// StatusHandler returns a handler responding with the given status code and
// body to every request.
func StatusHandler(statusCode int, body string) job.HTTPHandler {
	return HTTPHandlerMock{
		DoFunc: func(request *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: statusCode,
				Proto:      "HTTP/1.1",
				ProtoMajor: 1,
				ProtoMinor: 1,
				Body:       io.NopCloser(strings.NewReader(body)),
				Request:    request,
			}, nil
		},
	}
}

func init() {
	HTTPHandlerOk = StatusHandler(http.StatusOK, "ok")
	HTTPHandlerErr = StatusHandler(http.StatusInternalServerError, "")
}
