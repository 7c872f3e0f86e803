package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	pkgkafka "github.com/faiyaz92/pay-roll-sub001/pkg/kafka"
)

type activityRecorder interface {
	Execute(ctx context.Context, req dto.RecordActivityRequest) (dto.ActivityResponse, error)
}

// ActivityHandler feeds vehicle earnings and expenses published by the
// operations side into the financial ledger.
type ActivityHandler struct {
	recorder activityRecorder
	logger   *slog.Logger
}

func NewActivityHandler(recorder activityRecorder, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{recorder: recorder, logger: logger}
}

// Handle records one activity message. Malformed or invalid messages are
// logged and acknowledged so they do not block the partition; storage
// failures are returned and the message stays uncommitted.
func (h *ActivityHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req dto.RecordActivityRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed activity message",
			"key", string(msg.Key),
			"error", err,
		)
		return nil
	}

	resp, err := h.recorder.Execute(ctx, req)
	if errors.Is(err, model.ErrInvalidInput) {
		h.logger.WarnContext(ctx, "dropping invalid activity",
			"vehicle_id", req.VehicleID,
			"kind", req.Kind,
			"error", err,
		)
		return nil
	}
	if err != nil {
		return err
	}

	h.logger.DebugContext(ctx, "activity recorded",
		"activity_id", resp.ID,
		"vehicle_id", resp.VehicleID,
		"kind", resp.Kind,
	)
	return nil
}
