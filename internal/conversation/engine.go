package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"telegram-weather-stylist/internal/models"
)

type ProfileStore interface {
	GetProfile(chatID int64) (*models.Profile, error)
	UpsertProfile(p *models.Profile) error
	DeleteProfile(chatID int64) error
}

type Scheduler interface {
	EnsureScheduled(chatID int64) error
	Cancel(chatID int64)
}

type Deliverer interface {
	Deliver(ctx context.Context, chatID int64) error
}

// Sender pushes messages back to the chat. Rows become a reply keyboard;
// SendChoices with no rows removes the current keyboard.
type Sender interface {
	Send(chatID int64, text string) error
	SendChoices(chatID int64, text string, rows ...[]string) error
}

// Engine walks a chat through the onboarding dialog one stage at a time and
// hands the finished profile to the composer or the scheduler.
type Engine struct {
	sessions SessionStore
	profiles ProfileStore
	sched    Scheduler
	deliver  Deliverer
	send     Sender
	log      *zap.Logger
}

func NewEngine(sessions SessionStore, profiles ProfileStore, sched Scheduler, deliver Deliverer, send Sender, log *zap.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		profiles: profiles,
		sched:    sched,
		deliver:  deliver,
		send:     send,
		log:      log,
	}
}

// Start opens a fresh session for the chat, dropping any half-finished one.
func (e *Engine) Start(chatID int64) {
	e.sessions.Put(&Session{ChatID: chatID, Stage: models.StageAgreement})
	_ = e.send.SendChoices(chatID, textAgreement, rowsAgreement...)
}

// Reset wipes the chat completely: session, stored profile and any pending
// delivery job, then restarts the dialog. The scheduler's own profile
// re-check would catch the deletion within a cycle; cancelling here makes
// it immediate.
func (e *Engine) Reset(ctx context.Context, chatID int64) {
	e.sessions.Delete(chatID)
	if err := e.profiles.DeleteProfile(chatID); err != nil {
		e.log.Error("reset: delete profile", zap.Int64("chat_id", chatID), zap.Error(err))
		_ = e.send.Send(chatID, textResetFailed)
		return
	}
	e.sched.Cancel(chatID)
	e.Start(chatID)
}

// HandleText advances the dialog by one stage.
func (e *Engine) HandleText(ctx context.Context, chatID int64, text string) {
	norm := strings.ToLower(strings.TrimSpace(text))

	s, ok := e.sessions.Get(chatID)
	if !ok {
		// Completed chats keep the reset/start-over keyboard around.
		switch norm {
		case phraseReset:
			e.Reset(ctx, chatID)
		case phraseStartOver:
			e.startOver(chatID, nil)
		default:
			_ = e.send.Send(chatID, textNoSession)
		}
		return
	}

	switch s.Stage {
	case models.StageAgreement:
		switch norm {
		case tokenContinue:
			s.AgreementAccepted = true
			s.Stage = models.StageGender
			e.sessions.Put(s)
			_ = e.send.SendChoices(chatID, textAskGender, rowsGender...)
		case tokenCancel:
			e.sessions.Delete(chatID)
			_ = e.send.Send(chatID, textCancelled)
		default:
			_ = e.send.SendChoices(chatID, textAgreementRetry, rowsAgreement...)
		}

	case models.StageGender:
		s.Gender = norm
		s.Stage = models.StageStyle
		e.sessions.Put(s)
		_ = e.send.SendChoices(chatID, textAskStyle, rowsStyle...)

	case models.StageStyle:
		s.Style = norm
		s.Stage = models.StageInsight
		e.sessions.Put(s)
		_ = e.send.SendChoices(chatID, textAskInsight, rowsInsight...)

	case models.StageInsight:
		s.Insight = norm
		s.Stage = models.StageCity
		e.sessions.Put(s)
		_ = e.send.SendChoices(chatID, textAskCity)

	case models.StageCity:
		// city goes to the weather provider verbatim, only trimmed
		s.City = strings.TrimSpace(text)
		s.Stage = models.StageFrequency
		e.sessions.Put(s)
		_ = e.send.SendChoices(chatID, textAskFrequency, rowsFrequency...)

	case models.StageFrequency:
		if e.intercept(ctx, chatID, norm, s) {
			return
		}
		if norm == tokenOnce {
			s.Frequency = models.FrequencyOnce
			e.finish(ctx, s)
			return
		}
		s.Frequency = models.FrequencyDaily
		s.Stage = models.StageTime
		e.sessions.Put(s)
		_ = e.send.SendChoices(chatID, textAskTime)

	case models.StageTime:
		if e.intercept(ctx, chatID, norm, s) {
			return
		}
		hour, minute, err := models.ParseTimeOfDay(norm)
		if err != nil {
			_ = e.send.Send(chatID, textTimeRetry)
			return
		}
		s.TimeOfDay = fmt.Sprintf("%02d:%02d", hour, minute)
		e.finish(ctx, s)
	}
}

// intercept handles the reserved control phrases that hijack the final
// stages instead of being recorded as field values.
func (e *Engine) intercept(ctx context.Context, chatID int64, norm string, s *Session) bool {
	switch norm {
	case phraseReset:
		e.Reset(ctx, chatID)
		return true
	case phraseStartOver:
		e.startOver(chatID, s)
		return true
	}
	return false
}

// startOver re-enters the style stage keeping only the accepted agreement
// and the gender. After a completed dialog the session is gone, so the
// gender comes from the stored profile instead.
func (e *Engine) startOver(chatID int64, s *Session) {
	gender := ""
	if s != nil {
		gender = s.Gender
	}
	if gender == "" {
		if p, err := e.profiles.GetProfile(chatID); err == nil && p != nil {
			gender = p.Gender
		}
	}
	if gender == "" {
		e.Start(chatID)
		return
	}

	e.sessions.Put(&Session{
		ChatID:            chatID,
		Stage:             models.StageStyle,
		AgreementAccepted: true,
		Gender:            gender,
	})
	_ = e.send.SendChoices(chatID, textAskStyle, rowsStyle...)
}

// finish persists the profile and triggers the one-off delivery or the
// daily schedule. On a failed persist the session stays where it is so the
// user can retry.
func (e *Engine) finish(ctx context.Context, s *Session) {
	p := &models.Profile{
		ChatID:       s.ChatID,
		Gender:       s.Gender,
		Style:        s.Style,
		DailyInsight: s.Insight,
		City:         s.City,
		Frequency:    s.Frequency,
		TimeOfDay:    s.TimeOfDay,
	}
	if err := e.profiles.UpsertProfile(p); err != nil {
		e.log.Error("persist profile", zap.Int64("chat_id", s.ChatID), zap.Error(err))
		_ = e.send.Send(s.ChatID, textSaveFailed)
		return
	}
	e.sessions.Delete(s.ChatID)

	if p.Frequency == models.FrequencyOnce {
		if err := e.deliver.Deliver(ctx, s.ChatID); err != nil {
			e.log.Error("one-off delivery", zap.Int64("chat_id", s.ChatID), zap.Error(err))
		}
		_ = e.send.SendChoices(s.ChatID, textDoneOnce, rowsDone...)
		return
	}

	if err := e.sched.EnsureScheduled(s.ChatID); err != nil {
		e.log.Error("ensure scheduled", zap.Int64("chat_id", s.ChatID), zap.Error(err))
		_ = e.send.Send(s.ChatID, textScheduleFailed)
		return
	}
	_ = e.send.SendChoices(s.ChatID, fmt.Sprintf(textDoneDailyFmt, p.TimeOfDay), rowsDone...)
}
