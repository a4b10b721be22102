package job

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/reugn/go-schedule/schedule"
)

// HTTPJob sends an HTTP request on every invocation of its Execute method,
// which satisfies the [schedule.Callback] signature.
type HTTPJob struct {
	mtx         sync.Mutex
	httpClient  HTTPHandler
	request     *http.Request
	response    *http.Response
	jobStatus   Status
	description string
	callback    func(context.Context, *HTTPJob)
}

var _ schedule.Callback = (*HTTPJob)(nil).Execute

// HTTPHandler sends an HTTP request and returns an HTTP response,
// following policy (such as redirects, cookies, auth) as configured
// on the implementing HTTP client.
type HTTPHandler interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPJobOptions represents optional parameters for constructing an HTTPJob.
type HTTPJobOptions struct {
	HTTPClient HTTPHandler
	Callback   func(context.Context, *HTTPJob)
}

// NewHTTPJob returns a new HTTPJob using the default HTTP client.
func NewHTTPJob(request *http.Request) *HTTPJob {
	return NewHTTPJobWithOptions(request, HTTPJobOptions{HTTPClient: http.DefaultClient})
}

// NewHTTPJobWithOptions returns a new HTTPJob configured with HTTPJobOptions.
func NewHTTPJobWithOptions(request *http.Request, opts HTTPJobOptions) *HTTPJob {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &HTTPJob{
		httpClient:  opts.HTTPClient,
		request:     request,
		jobStatus:   StatusNA,
		description: formatRequest(request),
		callback:    opts.Callback,
	}
}

// Description returns the description of the HTTPJob.
func (hj *HTTPJob) Description() string {
	return fmt.Sprintf("HTTPJob%s%s", schedule.Sep, hj.description)
}

// DumpResponse returns the response of the last run in its HTTP/1.x wire
// representation.
// If body is true, DumpResponse also returns the body.
func (hj *HTTPJob) DumpResponse(body bool) ([]byte, error) {
	hj.mtx.Lock()
	defer hj.mtx.Unlock()
	if hj.response != nil {
		return httputil.DumpResponse(hj.response, body)
	}
	return nil, errors.New("response is nil")
}

// JobStatus returns the status of the last run.
func (hj *HTTPJob) JobStatus() Status {
	hj.mtx.Lock()
	defer hj.mtx.Unlock()
	return hj.jobStatus
}

func formatRequest(r *http.Request) string {
	var request []string
	url := fmt.Sprintf("%v %v %v", r.Method, r.URL, r.Proto)
	request = append(request, url)
	for name, headers := range r.Header {
		for _, h := range headers {
			request = append(request, fmt.Sprintf("%v: %v", name, h))
		}
	}
	if r.ContentLength > 0 {
		request = append(request, fmt.Sprintf("Content Length: %d", r.ContentLength))
	}
	return strings.Join(request, "\n")
}

// Execute sends the request. The job data is ignored. Transport errors and
// responses with a status code outside of 2xx and 3xx are returned as errors.
func (hj *HTTPJob) Execute(ctx context.Context, _ any) error {
	request, err := hj.newRequest(ctx)
	if err != nil {
		return err
	}

	response, err := hj.httpClient.Do(request)
	if err == nil {
		err = bufferBody(response)
	}

	hj.mtx.Lock()
	hj.response = response
	if err == nil && response.StatusCode >= 200 && response.StatusCode < 400 {
		hj.jobStatus = StatusOK
	} else {
		hj.jobStatus = StatusFailure
		if err == nil {
			err = errors.Newf("unexpected status code %d", response.StatusCode)
		}
	}
	hj.mtx.Unlock()

	if hj.callback != nil {
		hj.callback(ctx, hj)
	}
	if err != nil {
		return errors.Wrapf(err, "%s %s", request.Method, request.URL)
	}
	return nil
}

// newRequest returns a copy of the request bound to ctx with a fresh body.
func (hj *HTTPJob) newRequest(ctx context.Context) (*http.Request, error) {
	request := hj.request.Clone(ctx)
	if hj.request.GetBody != nil {
		body, err := hj.request.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "request body")
		}
		request.Body = body
	}
	return request, nil
}

// bufferBody reads and closes the response body, replacing it with an
// in-memory copy so that the response can be dumped later.
func bufferBody(response *http.Response) error {
	if response.Body == nil {
		return nil
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Wrap(err, "read response body")
	}
	response.Body = io.NopCloser(bytes.NewReader(body))
	return nil
}
