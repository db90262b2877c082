package provider

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// NumverifyName is the data source name of the Numverify provider.
const NumverifyName = "Numverify"

// DefaultNumverifyBaseURL is the Numverify validation endpoint.
const DefaultNumverifyBaseURL = "http://apilayer.net/api/validate"

var _ port.EvidenceProvider[model.ValidityEvidence] = (*NumverifyClient)(nil)

// NumverifyClient validates numbers and looks up carriers with Numverify.
type NumverifyClient struct {
	logger  *slog.Logger
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewNumverifyClient creates a new Numverify client. An empty baseURL uses
// DefaultNumverifyBaseURL.
func NewNumverifyClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *NumverifyClient {
	if baseURL == "" {
		baseURL = DefaultNumverifyBaseURL
	}
	return &NumverifyClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
		logger:  logger,
	}
}

type numverifyResponse struct {
	Error *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
	InternationalFormat string `json:"international_format"`
	LocalFormat         string `json:"local_format"`
	CountryCode         string `json:"country_code"`
	CountryName         string `json:"country_name"`
	Location            string `json:"location"`
	Carrier             string `json:"carrier"`
	LineType            string `json:"line_type"`
	Valid               bool   `json:"valid"`
}

func (c *NumverifyClient) Name() string { return NumverifyName }

// Lookup validates phone. An invalid verdict is evidence, not a failure.
func (c *NumverifyClient) Lookup(ctx context.Context, phone valueobject.PhoneNumber) model.Outcome[model.ValidityEvidence] {
	if c.apiKey == "" {
		return model.Unavailable[model.ValidityEvidence](NumverifyName + " API key not configured")
	}

	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("number", phone.String())
	q.Set("format", "1")

	var resp numverifyResponse
	if err := getJSON(ctx, c.client, c.baseURL+"?"+q.Encode(), &resp); err != nil {
		c.logger.DebugContext(ctx, "numverify lookup failed", slog.String("error", err.Error()))
		return model.Unavailable[model.ValidityEvidence](err.Error())
	}
	if resp.Error != nil {
		info := resp.Error.Info
		if info == "" {
			info = "API error"
		}
		return model.Unavailable[model.ValidityEvidence](info)
	}

	if !resp.Valid {
		return model.Available(model.ValidityEvidence{Valid: false})
	}

	return model.Available(model.ValidityEvidence{
		Valid:               true,
		InternationalFormat: resp.InternationalFormat,
		LocalFormat:         resp.LocalFormat,
		CountryCode:         resp.CountryCode,
		CountryName:         resp.CountryName,
		Location:            resp.Location,
		Carrier:             resp.Carrier,
		LineType:            resp.LineType,
	})
}
