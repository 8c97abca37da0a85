// internal/app/poll_service.go
package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"
	"homework_status_bot/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// NewStatusTemplate is filled with the homework name and the verdict.
	NewStatusTemplate = `Изменился статус проверки работы "%s". %s`
	// ErrorTemplate is filled with the failure of a poll iteration.
	ErrorTemplate = "Сбой в работе программы: %v"
)

// Outcome summarizes one poll iteration.
type Outcome string

const (
	OutcomeNotified     Outcome = "notified"
	OutcomeNoChanges    Outcome = "no_changes"
	OutcomeNotifyFailed Outcome = "notify_failed"
	OutcomeFailed       Outcome = "failed"
)

// Poller runs a single fetch-validate-notify iteration.
type Poller interface {
	Poll(ctx context.Context) Outcome
}

var _ Poller = (*PollService)(nil)

// PollService checks the homework status API and forwards changes to one chat.
// Poll must not be called concurrently; Cursor and LastPollAt are safe from any goroutine.
type PollService struct {
	statusClient   homework.StatusClient
	telegramClient domainTelegram.Client
	chatID         int64
	logger         *logrus.Entry

	cursor     atomic.Int64
	lastPollAt atomic.Int64 // UnixNano, zero before the first poll
	now        func() time.Time
}

func NewPollService(
	sc homework.StatusClient,
	tc domainTelegram.Client,
	chatID int64,
	startCursor int64,
	logger *logrus.Logger,
) *PollService {
	s := &PollService{
		statusClient:   sc,
		telegramClient: tc,
		chatID:         chatID,
		logger:         logger.WithField("component", "poll_service"),
		now:            time.Now,
	}
	s.cursor.Store(startCursor)
	metrics.SetCursor(startCursor)
	return s
}

// InitialCursor returns the first from_date: now shifted back by lookback,
// so a change made just before startup is still reported.
func InitialCursor(now time.Time, lookback time.Duration) int64 {
	return now.Add(-lookback).Unix()
}

// Cursor returns the current from_date lower bound.
func (s *PollService) Cursor() int64 {
	return s.cursor.Load()
}

// LastPollAt returns the start time of the latest iteration.
func (s *PollService) LastPollAt() time.Time {
	ns := s.lastPollAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// ParseStatus builds the notification text for a report.
func ParseStatus(report homework.Report) (string, error) {
	verdict, err := report.Status.Verdict()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(NewStatusTemplate, report.HomeworkName, verdict), nil
}

// Check fetches statuses changed since fromDate and formats the newest one.
// An empty message with a nil error means nothing changed.
func (s *PollService) Check(ctx context.Context, fromDate int64) (string, *homework.StatusResponse, error) {
	resp, err := s.statusClient.FetchStatuses(ctx, fromDate)
	if err != nil {
		return "", nil, err
	}
	report, ok := resp.Latest()
	if !ok {
		return "", resp, nil
	}
	message, err := ParseStatus(report)
	if err != nil {
		return "", nil, err
	}
	return message, resp, nil
}

// Poll runs one iteration. Every failure is logged and reported to the chat;
// nothing is propagated to the caller.
func (s *PollService) Poll(ctx context.Context) Outcome {
	fromDate := s.cursor.Load()
	s.lastPollAt.Store(s.now().UnixNano())
	logCtx := s.logger.WithFields(logrus.Fields{
		"poll_id":   uuid.NewString(),
		"from_date": fromDate,
	})
	logCtx.Debug("Polling homework statuses")

	message, resp, err := s.Check(ctx, fromDate)
	if err != nil {
		if ctx.Err() != nil {
			logCtx.WithError(err).Info("Poll interrupted by shutdown")
			metrics.IncPoll(string(OutcomeFailed))
			return OutcomeFailed
		}
		errorMessage := fmt.Sprintf(ErrorTemplate, err)
		logCtx.WithError(err).Error(errorMessage)
		s.send(logCtx, "error", errorMessage)
		metrics.IncPoll(string(OutcomeFailed))
		return OutcomeFailed
	}

	outcome := OutcomeNoChanges
	if message != "" {
		outcome = OutcomeNotified
		if !s.send(logCtx, "status", message) {
			outcome = OutcomeNotifyFailed
		}
	} else {
		logCtx.Debug("No homework status changes")
	}

	s.advance(logCtx, resp)
	metrics.IncPoll(string(outcome))
	return outcome
}

// send delivers text to the chat, logging the result. Failures are never escalated.
func (s *PollService) send(logCtx *logrus.Entry, kind, text string) bool {
	err := s.telegramClient.SendMessage(s.chatID, text)
	metrics.IncNotification(kind, err == nil)
	if err != nil {
		logCtx.WithError(err).WithField("kind", kind).Error("Bot failed to send message")
		return false
	}
	logCtx.WithField("kind", kind).Infof("Bot sent message: %s", text)
	return true
}

func (s *PollService) advance(logCtx *logrus.Entry, resp *homework.StatusResponse) {
	if resp == nil || !resp.HasCurrentDate {
		return
	}
	s.cursor.Store(resp.CurrentDate)
	metrics.SetCursor(resp.CurrentDate)
	logCtx.WithField("cursor", resp.CurrentDate).Debug("Cursor advanced")
}
