// Package collector is the request-execution layer REST API collectors are
// built on. An Executor owns one configured session; concrete collectors
// compose an Executor and implement the Collector interface on top of
// Dispatch.
package collector

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"collectkit/lib/fault"
	"collectkit/lib/restyutil"
	"collectkit/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// Collector is the contract a concrete API collector implements, delegating
// to an Executor internally and transforming its structured result.
type Collector interface {
	FetchData(ctx context.Context, endpoint string, query url.Values) (map[string]any, error)
}

// Credentials selects the authentication mode of a session. A token wins
// over username/password; a username without a password (or the reverse)
// attaches nothing.
type Credentials struct {
	Token    string
	Username string
	Password string
}

type Options struct {
	BaseUrl     string
	Credentials Credentials
	// Output receives a transcript of every HTTP exchange, nil disables it.
	Output restyutil.InstrumentOutput
}

// Executor issues API requests through a session configured once at
// construction. It is not meant for concurrent reuse, callers needing
// parallelism use independent instances.
type Executor struct {
	baseUrl string
	http    *resty.Client
	logger  *slog.Logger
}

// NewExecutor builds an Executor for one collector type. `name` keys the
// instrumentation: the logger and tracer both carry it.
func NewExecutor(name string, opts Options) *Executor {
	client := resty.New()
	if opts.Credentials.Token != "" {
		client.SetAuthToken(opts.Credentials.Token)
	} else if opts.Credentials.Username != "" && opts.Credentials.Password != "" {
		client.SetBasicAuth(opts.Credentials.Username, opts.Credentials.Password)
	}

	restyutil.InstrumentClient(client, telemetry.Tracer("collector/"+name), opts.Output)

	return &Executor{
		baseUrl: opts.BaseUrl,
		http:    client,
		logger:  telemetry.Logger(name),
	}
}

const opDispatch = "dispatch"

// Dispatch issues one request and decodes the response body as a JSON
// object. The target URL is the base url and endpoint joined with a single
// "/", nothing deduplicates separators, callers rely on the exact join.
//
// Failures come back classified: fault.HTTPError for any status of 400 or
// above, fault.TransportError below the HTTP layer, fault.UnexpectedError
// for everything else including an undecodable body. There is no timeout
// and no retry on this path; every failure surfaces on first occurrence.
func (e *Executor) Dispatch(ctx context.Context, method, endpoint string, query url.Values, body any) (map[string]any, error) {
	target := e.baseUrl + "/" + endpoint
	start := time.Now()

	req := e.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}

	res, err := req.Execute(method, target)
	if err != nil {
		if fault.IsTransport(err) {
			err = &fault.TransportError{Err: err}
		} else {
			err = &fault.UnexpectedError{Err: err}
		}
		telemetry.Record(e.logger, opDispatch, start, 0)
		e.logger.Error("request error occurred", "err", err)
		return nil, err
	}

	if res.StatusCode() >= 400 {
		herr := &fault.HTTPError{StatusCode: res.StatusCode(), Status: res.Status()}
		telemetry.Record(e.logger, opDispatch, start, res.StatusCode())
		e.logger.Error("http error occurred", "err", herr)
		return nil, herr
	}

	var result map[string]any
	if err := json.Unmarshal(res.Body(), &result); err != nil {
		uerr := &fault.UnexpectedError{Err: err}
		telemetry.Record(e.logger, opDispatch, start, res.StatusCode())
		e.logger.Error("unexpected error occurred", "err", uerr)
		return nil, uerr
	}

	telemetry.Record(e.logger, opDispatch, start, res.StatusCode())
	return result, nil
}
