package cnmv

import (
	"net/http/cookiejar"
	"net/url"
	"time"

	"shortwatch/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/cnmv")

const (
	defaultBaseUrl = "https://www.cnmv.es"
	// endpoint behind "Consultas a registros oficiales > Entidades emisoras:
	// Información regulada > Posiciones cortas". It only accepts a NIF.
	defaultShortPath = "/Portal/Consultas/EE/PosicionesCortas.aspx"
)

// Client extracts data from the CNMV web site. The page is rendered for
// humans, not machines, so everything here is screen scraping and the
// selectors and marker strings come from captured production responses.
type Client struct {
	BaseUrl   *url.URL
	Http      *resty.Client
	shortPath string
}

type ClientOptions struct {
	// BaseUrl overrides the production site, used by tests.
	BaseUrl string
	// ShortPositionsPath overrides the short position endpoint path.
	ShortPositionsPath string
}

func NewClient(opts ClientOptions) (*Client, error) {
	base := opts.BaseUrl
	if base == "" {
		base = defaultBaseUrl
	}
	shortPath := opts.ShortPositionsPath
	if shortPath == "" {
		shortPath = defaultShortPath
	}

	baseUrl, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(base)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/cnmv/http")

	return &Client{
		BaseUrl:   baseUrl,
		Http:      client,
		shortPath: shortPath,
	}, nil
}
