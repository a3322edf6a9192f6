package service

import (
	"context"

	"geolog/internal/domain"
	"geolog/internal/logging"
	"geolog/internal/models"
)

type errorLogStore interface {
	Create(ctx context.Context, e *models.ErrorLog) error
}

// ErrorChannel records handled failures for operators: always to the log,
// and to the error_logs table when a store is configured.
type ErrorChannel struct {
	store errorLogStore
}

func NewErrorChannel(store errorLogStore) *ErrorChannel {
	return &ErrorChannel{store: store}
}

// Report never fails; a broken store is itself only logged.
func (c *ErrorChannel) Report(ctx context.Context, rc domain.RequestContext, title string, err error) {
	if err == nil {
		return
	}
	var userID string
	if rc.Principal != nil {
		userID = rc.Principal.UserID
	}
	logging.Ctx(ctx).Error().Err(err).
		Str("title", title).
		Str("user", userID).
		Msg("operation failed")

	if c == nil || c.store == nil {
		return
	}
	entry := &models.ErrorLog{
		Title:     title,
		Message:   err.Error(),
		UserID:    userID,
		RequestID: rc.RequestID,
	}
	// detached so a cancelled request still gets its failure recorded
	if perr := c.store.Create(context.WithoutCancel(ctx), entry); perr != nil {
		logging.Ctx(ctx).Warn().Err(perr).Str("title", title).Msg("error log write failed")
	}
}
