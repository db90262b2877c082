package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/domain/model"
	pkgkafka "github.com/phonerisk/phonerisk/pkg/kafka"
)

// AnalysisRequest is the message body accepted on the requests topic.
type AnalysisRequest struct {
	PhoneNumber string `json:"phone_number"`
	RequestID   string `json:"request_id,omitempty"`
	DeepScan    bool   `json:"deep_scan"`
}

// Executor runs one analysis. usecase.AnalyzePhone implements it.
type Executor interface {
	Execute(ctx context.Context, req dto.AnalyzeRequest) (dto.AnalyzeResponse, error)
}

// RequestConsumer turns analysis requests from Kafka into AnalyzePhone calls.
// Results are not replied to; consumers of the events topic see them.
type RequestConsumer struct {
	executor Executor
	logger   *slog.Logger
}

// NewRequestConsumer creates a new RequestConsumer.
func NewRequestConsumer(executor Executor, logger *slog.Logger) *RequestConsumer {
	return &RequestConsumer{executor: executor, logger: logger}
}

// Handle processes one message. Requests that can never succeed are logged
// and acknowledged; anything else is returned so the consumer retries it.
func (c *RequestConsumer) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req AnalysisRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		c.logger.WarnContext(ctx, "discarding malformed analysis request",
			slog.String("error", err.Error()),
			slog.Int("size", len(msg.Value)),
		)
		return nil
	}

	resp, err := c.executor.Execute(ctx, dto.AnalyzeRequest{
		PhoneNumber: req.PhoneNumber,
		DeepScan:    req.DeepScan,
	})
	if err != nil {
		if errors.Is(err, dto.ErrValidation) || errors.Is(err, model.ErrInvalidPhoneNumber) {
			c.logger.WarnContext(ctx, "discarding invalid analysis request",
				slog.String("request_id", req.RequestID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		return err
	}

	c.logger.InfoContext(ctx, "analysis request processed",
		slog.String("request_id", req.RequestID),
		slog.String("analysis_id", resp.Analysis.ID.String()),
		slog.String("risk_level", resp.Analysis.RiskLevel),
		slog.Bool("cached", resp.Cached),
	)
	return nil
}
