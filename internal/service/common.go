package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/events"
	"github.com/campusvoice/issue-service/internal/repository"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

// Timestamps are kept at millisecond precision so every backend stores them
// losslessly.
const timestampPrecision = time.Millisecond

var validate = validator.New()

func defaultClock() time.Time {
	return time.Now().UTC().Truncate(timestampPrecision)
}

// validationError converts validator output into a VALIDATION_FAILED error.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid input", details)
}

// mapRepoError converts repository sentinels into domain errors.
func mapRepoError(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.NewConflict(resource+" was modified concurrently", map[string]any{"id": id})
	case errors.Is(err, repository.ErrDuplicateID):
		return apperrors.NewConflict(resource+" already exists", map[string]any{"id": id})
	default:
		return apperrors.MapError(err)
	}
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event, now func() time.Time) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func actorOf(identity domain.Identity) events.Actor {
	return events.Actor{ID: identity.ID, Role: identity.Role}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
