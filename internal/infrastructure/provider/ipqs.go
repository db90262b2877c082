package provider

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// IPQSName is the data source name of the IPQualityScore provider.
const IPQSName = "IPQualityScore"

// DefaultIPQSBaseURL is the IPQualityScore phone validation endpoint.
const DefaultIPQSBaseURL = "https://ipqualityscore.com/api/json/phone"

// Compile-time interface check.
var _ port.EvidenceProvider[model.FraudScoreEvidence] = (*IPQSClient)(nil)

// IPQSClient looks up fraud scores from IPQualityScore.
type IPQSClient struct {
	logger  *slog.Logger
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewIPQSClient creates a new IPQualityScore client. An empty baseURL uses
// DefaultIPQSBaseURL.
func NewIPQSClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *IPQSClient {
	if baseURL == "" {
		baseURL = DefaultIPQSBaseURL
	}
	return &IPQSClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
		logger:  logger,
	}
}

// ipqsResponse is the subset of the IPQualityScore phone response we read.
// Pointers distinguish absent flags from false.
type ipqsResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	FraudScore  int    `json:"fraud_score"`
	SpamScore   int    `json:"spam_score"`
	RecentAbuse bool   `json:"recent_abuse"`
	VOIP        bool   `json:"VOIP"`
	Prepaid     *bool  `json:"prepaid"`
	Risky       bool   `json:"risky"`
	Active      *bool  `json:"active"`
	DoNotCall   bool   `json:"do_not_call"`
	Carrier     string `json:"carrier"`
	LineType    string `json:"line_type"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Region      string `json:"region"`
}

func (c *IPQSClient) Name() string { return IPQSName }

// Lookup queries the fraud score of phone.
func (c *IPQSClient) Lookup(ctx context.Context, phone valueobject.PhoneNumber) model.Outcome[model.FraudScoreEvidence] {
	if c.apiKey == "" {
		return model.Unavailable[model.FraudScoreEvidence](IPQSName + " API key not configured")
	}

	endpoint := c.baseURL + "/" + url.PathEscape(c.apiKey) + "/" + phone.Digits() + "?strictness=1"

	var resp ipqsResponse
	if err := getJSON(ctx, c.client, endpoint, &resp); err != nil {
		c.logger.DebugContext(ctx, "ipqs lookup failed", slog.String("error", err.Error()))
		return model.Unavailable[model.FraudScoreEvidence](err.Error())
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "API error"
		}
		return model.Unavailable[model.FraudScoreEvidence](msg)
	}

	active := true
	if resp.Active != nil {
		active = *resp.Active
	}

	return model.Available(model.FraudScoreEvidence{
		FraudScore:  clampScore(resp.FraudScore),
		SpamScore:   clampScore(resp.SpamScore),
		RecentAbuse: resp.RecentAbuse,
		VOIP:        resp.VOIP,
		Prepaid:     resp.Prepaid,
		Risky:       resp.Risky,
		Active:      active,
		DoNotCall:   resp.DoNotCall,
		Carrier:     resp.Carrier,
		LineType:    resp.LineType,
		Country:     resp.Country,
		City:        resp.City,
		Region:      resp.Region,
	})
}

func clampScore(v int) int {
	return min(max(v, 0), 100)
}
