package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"telegram-weather-stylist/internal/models"
)

type memProfiles struct {
	m       map[int64]*models.Profile
	failput bool
}

func newMemProfiles() *memProfiles { return &memProfiles{m: map[int64]*models.Profile{}} }

func (f *memProfiles) GetProfile(chatID int64) (*models.Profile, error) { return f.m[chatID], nil }

func (f *memProfiles) UpsertProfile(p *models.Profile) error {
	if f.failput {
		return fmt.Errorf("disk full")
	}
	cp := *p
	f.m[p.ChatID] = &cp
	return nil
}

func (f *memProfiles) DeleteProfile(chatID int64) error {
	delete(f.m, chatID)
	return nil
}

type spyScheduler struct {
	ensured   []int64
	cancelled []int64
}

func (s *spyScheduler) EnsureScheduled(chatID int64) error {
	s.ensured = append(s.ensured, chatID)
	return nil
}

func (s *spyScheduler) Cancel(chatID int64) { s.cancelled = append(s.cancelled, chatID) }

type spyDeliverer struct{ calls []int64 }

func (s *spyDeliverer) Deliver(_ context.Context, chatID int64) error {
	s.calls = append(s.calls, chatID)
	return nil
}

type spySender struct {
	texts []string
	rows  [][][]string
}

func (s *spySender) Send(_ int64, text string) error {
	s.texts = append(s.texts, text)
	s.rows = append(s.rows, nil)
	return nil
}

func (s *spySender) SendChoices(_ int64, text string, rows ...[]string) error {
	s.texts = append(s.texts, text)
	s.rows = append(s.rows, rows)
	return nil
}

func (s *spySender) last() string {
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

type fixture struct {
	engine   *Engine
	sessions SessionStore
	profiles *memProfiles
	sched    *spyScheduler
	deliver  *spyDeliverer
	sender   *spySender
}

func newFixture() *fixture {
	f := &fixture{
		sessions: NewMemorySessions(),
		profiles: newMemProfiles(),
		sched:    &spyScheduler{},
		deliver:  &spyDeliverer{},
		sender:   &spySender{},
	}
	f.engine = NewEngine(f.sessions, f.profiles, f.sched, f.deliver, f.sender, zap.NewNop())
	return f
}

func (f *fixture) say(t *testing.T, chatID int64, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		f.engine.HandleText(context.Background(), chatID, in)
	}
}

const chat = int64(100)

func TestOnceFlowCapturesProfileAndDelivers(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Male", "Casual", "Yes", "Berlin", "Once")

	p := f.profiles.m[chat]
	require.NotNil(t, p)
	require.Equal(t, "male", p.Gender)
	require.Equal(t, "casual", p.Style)
	require.Equal(t, "yes", p.DailyInsight)
	require.Equal(t, "Berlin", p.City, "city stays verbatim")
	require.Equal(t, models.FrequencyOnce, p.Frequency)
	require.Equal(t, "", p.TimeOfDay)

	require.Equal(t, []int64{chat}, f.deliver.calls)
	require.Empty(t, f.sched.ensured)
	require.Equal(t, textDoneOnce, f.sender.last())

	_, ok := f.sessions.Get(chat)
	require.False(t, ok, "session discarded after completion")
}

func TestDailyFlowSchedulesDelivery(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Female", "Business", "No", "Saint Petersburg", "Daily", "9:05")

	p := f.profiles.m[chat]
	require.NotNil(t, p)
	require.Equal(t, models.FrequencyDaily, p.Frequency)
	require.Equal(t, "09:05", p.TimeOfDay, "time zero-padded")

	require.Equal(t, []int64{chat}, f.sched.ensured)
	require.Empty(t, f.deliver.calls)
}

func TestAnyNonOnceFrequencyMeansDaily(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Male", "Sport", "No", "Berlin", "every day")

	require.Equal(t, textAskTime, f.sender.last())
	s, ok := f.sessions.Get(chat)
	require.True(t, ok)
	require.Equal(t, models.StageTime, s.Stage)
	require.Equal(t, models.FrequencyDaily, s.Frequency)
}

func TestAgreementRepromptsOnUnknownInput(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "what is this")

	require.Equal(t, textAgreementRetry, f.sender.last())
	s, _ := f.sessions.Get(chat)
	require.Equal(t, models.StageAgreement, s.Stage, "did not advance")
}

func TestAgreementCancelEndsSession(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Cancel")

	require.Equal(t, textCancelled, f.sender.last())
	_, ok := f.sessions.Get(chat)
	require.False(t, ok)
	require.Nil(t, f.profiles.m[chat])
}

func TestBadTimeRepromptsInsteadOfStalling(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Male", "Casual", "No", "Berlin", "Daily", "quarter past nine")

	require.Equal(t, textTimeRetry, f.sender.last())
	require.Nil(t, f.profiles.m[chat])

	// the stage is still live, a valid time completes the dialog
	f.say(t, chat, "09:15")
	require.NotNil(t, f.profiles.m[chat])
	require.Equal(t, "09:15", f.profiles.m[chat].TimeOfDay)
}

func TestResetClearsEverythingAtAnyStage(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Male", "Casual", "Yes", "Berlin", "Daily", "10:00")
	require.NotNil(t, f.profiles.m[chat])

	f.engine.Reset(context.Background(), chat)

	require.Nil(t, f.profiles.m[chat])
	require.Equal(t, []int64{chat}, f.sched.cancelled)
	s, ok := f.sessions.Get(chat)
	require.True(t, ok, "dialog restarted")
	require.Equal(t, models.StageAgreement, s.Stage)
	require.Equal(t, textAgreement, f.sender.last())
}

func TestResetSettingsPhraseAtFrequencyStage(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Male", "Casual", "Yes", "Berlin", "Reset settings")

	require.Nil(t, f.profiles.m[chat])
	s, ok := f.sessions.Get(chat)
	require.True(t, ok)
	require.Equal(t, models.StageAgreement, s.Stage)
}

func TestStartOverMidDialogKeepsAgreementAndGender(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Female", "Business", "Yes", "Moscow", "Start over")

	require.Equal(t, textAskStyle, f.sender.last())
	s, ok := f.sessions.Get(chat)
	require.True(t, ok)
	require.Equal(t, models.StageStyle, s.Stage)
	require.True(t, s.AgreementAccepted)
	require.Equal(t, "female", s.Gender)
	require.Empty(t, s.Style)
	require.Empty(t, s.City)

	f.say(t, chat, "Sport", "No", "Kazan", "Once")
	p := f.profiles.m[chat]
	require.NotNil(t, p)
	require.Equal(t, "female", p.Gender)
	require.Equal(t, "sport", p.Style)
	require.Equal(t, "Kazan", p.City)
}

func TestStartOverAfterCompletionRecoversGenderFromProfile(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Male", "Casual", "No", "Berlin", "Once")
	_, ok := f.sessions.Get(chat)
	require.False(t, ok)

	f.say(t, chat, "Start over")

	s, ok := f.sessions.Get(chat)
	require.True(t, ok)
	require.Equal(t, models.StageStyle, s.Stage)
	require.Equal(t, "male", s.Gender)
}

func TestStoreFailureKeepsStageForRetry(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Male", "Casual", "No", "Berlin", "Daily")

	f.profiles.failput = true
	f.say(t, chat, "08:00")
	require.Equal(t, textSaveFailed, f.sender.last())
	require.Empty(t, f.sched.ensured, "no scheduling after a failed persist")
	_, ok := f.sessions.Get(chat)
	require.True(t, ok, "session survives for a retry")

	f.profiles.failput = false
	f.say(t, chat, "08:00")
	require.NotNil(t, f.profiles.m[chat])
	require.Equal(t, []int64{chat}, f.sched.ensured)
}

func TestTextWithoutSessionPromptsStart(t *testing.T) {
	f := newFixture()
	f.say(t, chat, "hello")
	require.Equal(t, textNoSession, f.sender.last())
}

func TestUpsertAfterStartOverReplacesWholeProfile(t *testing.T) {
	f := newFixture()
	f.engine.Start(chat)
	f.say(t, chat, "Continue", "Male", "Business", "Yes", "Moscow", "Daily", "07:30")
	f.say(t, chat, "Start over", "Casual", "No", "Berlin", "Once")

	p := f.profiles.m[chat]
	require.NotNil(t, p)
	require.Equal(t, models.FrequencyOnce, p.Frequency)
	require.Equal(t, "", p.TimeOfDay, "no leftover time from the daily profile")
	require.Equal(t, "no", p.DailyInsight)
	require.Equal(t, "Berlin", p.City)
}
