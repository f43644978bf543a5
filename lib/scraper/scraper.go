// Package scraper is the page-fetching layer HTML scrapers are built on.
// A Fetcher owns one configured session carrying transport identity (agent
// string, proxy routing) but no authentication; concrete scrapers compose a
// Fetcher with ParseDocument and implement the Scraper interface.
package scraper

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"collectkit/lib/fault"
	"collectkit/lib/restyutil"
	"collectkit/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Scraper is the contract a concrete scraper implements, delegating to a
// Fetcher plus ParseDocument internally and extracting its own structured
// result.
type Scraper interface {
	Scrape(ctx context.Context, endpoint string, query url.Values) (map[string]any, error)
}

const DefaultUserAgent = "Mozilla/5.0 (compatible; collectkit/1.0)"

// Every fetch runs under this ceiling. The dispatch path in lib/collector
// deliberately has none.
const fetchTimeout = time.Second * 10

type Options struct {
	BaseUrl   string
	UserAgent string
	// Proxies routes requests by URL scheme, e.g. "https" -> proxy url.
	// Entries that fail to parse are dropped.
	Proxies map[string]string
	// BypassCloudflare wraps the transport with browser-like TLS and
	// header behavior for sites behind bot protection.
	BypassCloudflare bool
	Output           restyutil.InstrumentOutput
}

type Fetcher struct {
	baseUrl string
	http    *resty.Client
	logger  *slog.Logger
}

func NewFetcher(name string, opts Options) *Fetcher {
	agent := opts.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}

	client := resty.New()
	client.SetHeader("User-Agent", agent)
	client.SetTimeout(fetchTimeout)

	if len(opts.Proxies) > 0 {
		byScheme := map[string]*url.URL{}
		for scheme, proxy := range opts.Proxies {
			parsed, err := url.Parse(proxy)
			if err != nil {
				slog.Warn("dropping unparseable proxy url", "scheme", scheme, "err", err)
				continue
			}
			byScheme[scheme] = parsed
		}
		if transport, ok := client.GetClient().Transport.(*http.Transport); ok {
			transport.Proxy = func(req *http.Request) (*url.URL, error) {
				return byScheme[req.URL.Scheme], nil
			}
		}
	}
	if opts.BypassCloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	restyutil.InstrumentClient(client, telemetry.Tracer("scraper/"+name), opts.Output)

	return &Fetcher{
		baseUrl: opts.BaseUrl,
		http:    client,
		logger:  telemetry.Logger(name),
	}
}

const opFetch = "fetch"

// Fetch issues one GET and returns the raw response body as text. The
// target URL is the base url and endpoint joined with a single "/", same
// exact-join behavior as collector.Executor.Dispatch.
//
// A status of 400 or above comes back as fault.HTTPError, a failure below
// the HTTP layer as fault.TransportError. Unlike Dispatch there is no
// catch-all wrapping here: any other error propagates with its original
// type.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string, query url.Values) (string, error) {
	target := f.baseUrl + "/" + endpoint
	start := time.Now()

	req := f.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	res, err := req.Get(target)
	if err != nil {
		if fault.IsTransport(err) {
			err = &fault.TransportError{Err: err}
		}
		telemetry.Record(f.logger, opFetch, start, 0)
		f.logger.Error("request error occurred while fetching page", "err", err)
		return "", err
	}

	if res.StatusCode() >= 400 {
		herr := &fault.HTTPError{StatusCode: res.StatusCode(), Status: res.Status()}
		telemetry.Record(f.logger, opFetch, start, res.StatusCode())
		f.logger.Error("http error occurred while fetching page", "err", herr)
		return "", herr
	}

	telemetry.Record(f.logger, opFetch, start, res.StatusCode())
	return res.String(), nil
}
