package audit

import (
	"context"
	"encoding/json"

	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrWriteFailed marks an audit write that could not be persisted. It is
// returned to make the failure path explicit, but callers never let it
// abort the business operation the record describes.
var ErrWriteFailed = shared.NewDomainError("AUDIT_WRITE_FAILED", "Audit record could not be persisted")

// Recorder appends records to the audit trail. Persistence failures are
// logged and reported through ErrWriteFailed; the triggering operation
// always completes regardless.
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Record appends one audit record. The payload is marshalled to JSON; a nil
// payload stores an empty object.
func (r *Recorder) Record(ctx context.Context, kind audit.ActionKind, refs audit.Refs, payload map[string]interface{}, meta audit.Metadata) (*audit.Record, error) {
	body := "{}"
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			r.logger.Error("Audit payload not serializable",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			return nil, ErrWriteFailed
		}
		body = string(encoded)
	}

	record, err := audit.NewRecord(kind, refs, body, meta)
	if err != nil {
		r.logger.Error("Audit record rejected",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, ErrWriteFailed
	}

	if err := r.repo.Append(ctx, record); err != nil {
		r.logger.Error("Audit record write failed",
			zap.String("kind", string(kind)),
			zap.String("record_id", record.ID.String()),
			zap.Error(err),
		)
		return nil, ErrWriteFailed
	}

	return record, nil
}
