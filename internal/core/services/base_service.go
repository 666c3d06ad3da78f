package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	"github.com/vaadbayit/vaad_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// now is the clock used for "today" and "current month"; nil means time.Now.
	now func() time.Time
}

// Today returns the current calendar date in UTC.
func (s *BaseService) Today() time.Time {
	if s.now == nil {
		return domain.DateOf(time.Now().UTC())
	}
	return domain.DateOf(s.now())
}

// CurrentMonth returns the first day of the current month.
func (s *BaseService) CurrentMonth() time.Time {
	return domain.MonthStart(s.Today())
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// buildingAttr renders an optional building filter for log lines.
func buildingAttr(buildingID *int64) slog.Attr {
	if buildingID == nil {
		return slog.String("building_id", "all")
	}
	return slog.Int64("building_id", *buildingID)
}

func rangeAttrs(r domain.DateRange) []any {
	return []any{
		slog.String("start", r.Start.Format(domain.DateLayout)),
		slog.String("end", r.End.Format(domain.DateLayout)),
	}
}
