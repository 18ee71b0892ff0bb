package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/bnema/studybuddy/internal/domain"
	"github.com/bnema/studybuddy/internal/ports"
)

const FallbackReply = "Sorry, I couldn't generate a response."

const (
	focusCompleteMessage = "Time's up! Take a break."
	breakCompleteMessage = "Break over. Back to work!"
)

var ErrNilSession = errors.New("session is nil")

type Settings struct {
	DefaultTimerSeconds int
	BreakSeconds        int
	// FocusOptions are the offered focus lengths in minutes. Empty allows any
	// positive length.
	FocusOptions     []int
	TipCount         int
	GeneratorTimeout time.Duration
}

type SessionService struct {
	generator ports.ResponseGenerator
	tips      ports.TipCatalog
	clock     ports.Clock
	settings  Settings
	logger    *slog.Logger
	rng       *rand.Rand
}

func NewSessionService(generator ports.ResponseGenerator, tips ports.TipCatalog, clock ports.Clock, settings Settings, logger *slog.Logger) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if settings.GeneratorTimeout <= 0 {
		settings.GeneratorTimeout = 30 * time.Second
	}

	return &SessionService{
		generator: generator,
		tips:      tips,
		clock:     clock,
		settings:  settings,
		logger:    logger,
	}
}

func (s *SessionService) NewSession() *domain.Session {
	return domain.NewSession(domain.NewSessionID(), s.settings.DefaultTimerSeconds, s.clock.Now())
}

// Snapshot renders the session without mutating it.
func (s *SessionService) Snapshot(session *domain.Session) Snapshot {
	return newSnapshot(session, session.Timer.Peek(s.clock.Now()), s.settings.FocusOptions)
}

// Apply runs one interaction cycle: poll the timer, apply event, and return
// the new snapshot. Rejected actions become notices and leave the session
// untouched; only a nil session is reported as an error.
func (s *SessionService) Apply(ctx context.Context, session *domain.Session, event Event) (Outcome, error) {
	if session == nil {
		return Outcome{}, ErrNilSession
	}
	if event == nil {
		event = Tick{}
	}

	now := s.clock.Now()
	var outcome Outcome

	if reading := session.Timer.Poll(now); reading.JustCompleted {
		outcome.notify(NoticeSuccess, completionMessage(reading.Kind), nil)
	}

	s.logger.Debug("apply event", "session", session.ID, "event", event.Name())

	switch ev := event.(type) {
	case Tick:
	case SendMessage:
		s.sendMessage(ctx, session, ev.Text, now, &outcome)
	case ClearChat:
		session.Chat.Clear()
	case StartTimer:
		s.startFocus(session, ev.Seconds, now, &outcome)
	case StartBreak:
		if err := session.StartBreak(s.settings.BreakSeconds, now); err != nil {
			outcome.notify(NoticeWarning, "Break length is not configured.", err)
		}
	case StopTimer:
		session.Timer.Stop()
	case AddTask:
		if _, err := session.Tasks.Add(ev.Description, ev.Category, ev.Deadline, now); err != nil {
			outcome.notify(NoticeWarning, taskRejectionMessage(err), err)
		}
	case CompleteTask:
		if !session.Tasks.Complete(ev.ID) {
			outcome.notify(NoticeInfo, "That task is not on the list.", domain.ErrTaskNotFound)
		}
	case RemoveTask:
		if !session.Tasks.Remove(ev.ID) {
			outcome.notify(NoticeInfo, "That task is not on the list.", domain.ErrTaskNotFound)
		}
	case ClearFinishedTasks:
		session.Tasks.ClearFinished()
	case AddNote:
		if err := session.Notes.Add(ev.Text, now); err != nil {
			outcome.notify(NoticeWarning, "Write something before adding a note.", err)
		}
	case ClearNotes:
		session.Notes.Clear()
	case EndSession:
		s.endSession(ctx, session, now, &outcome)
	default:
		return Outcome{}, fmt.Errorf("unsupported event %T", event)
	}

	outcome.Snapshot = newSnapshot(session, session.Timer.Peek(now), s.settings.FocusOptions)
	return outcome, nil
}

func (s *SessionService) sendMessage(ctx context.Context, session *domain.Session, text string, now time.Time, outcome *Outcome) {
	prompt, err := session.Chat.Admit(text)
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		outcome.notify(NoticeWarning, "Type a message first.", err)
		return
	case errors.Is(err, domain.ErrDuplicateMessage):
		outcome.notify(NoticeInfo, "That message was already answered.", err)
		return
	}

	reply := s.generateReply(ctx, session.ID, prompt)
	session.Chat.AppendExchange(prompt, reply, now)
}

// generateReply never fails: errors, timeouts and blank replies all become
// FallbackReply and are only logged.
func (s *SessionService) generateReply(ctx context.Context, sessionID domain.SessionID, prompt string) string {
	if s.generator == nil {
		s.logger.Warn("no response generator configured", "session", sessionID)
		return FallbackReply
	}

	ctx, cancel := context.WithTimeout(ctx, s.settings.GeneratorTimeout)
	defer cancel()

	started := s.clock.Now()
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("response generator failed",
			"session", sessionID,
			"model", s.generator.Model(),
			"error", err,
		)
		return FallbackReply
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		s.logger.Warn("response generator returned no text", "session", sessionID, "model", s.generator.Model())
		return FallbackReply
	}

	s.logger.Debug("response generated",
		"session", sessionID,
		"model", s.generator.Model(),
		"elapsed", s.clock.Now().Sub(started),
	)
	return reply
}

func (s *SessionService) startFocus(session *domain.Session, seconds int, now time.Time, outcome *Outcome) {
	if !s.allowsFocus(seconds) {
		err := fmt.Errorf("%w: %d seconds is not an offered focus length", domain.ErrInvalidDuration, seconds)
		outcome.notify(NoticeWarning, fmt.Sprintf("Pick a focus length of %s minutes.", joinInts(s.settings.FocusOptions)), err)
		return
	}

	if err := session.StartFocus(seconds, now); err != nil {
		outcome.notify(NoticeWarning, "Focus length must be positive.", err)
	}
}

func (s *SessionService) allowsFocus(seconds int) bool {
	if seconds <= 0 {
		return false
	}
	if len(s.settings.FocusOptions) == 0 {
		return true
	}

	return slices.ContainsFunc(s.settings.FocusOptions, func(minutes int) bool {
		return minutes*60 == seconds
	})
}

func (s *SessionService) endSession(ctx context.Context, session *domain.Session, now time.Time, outcome *Outcome) {
	if !session.FocusInProgress() {
		outcome.notify(NoticeWarning, "No focus session in progress. Start a timer first.", domain.ErrNoSessionInProgress)
		return
	}

	summary, err := session.End(now, s.pickTips(ctx))
	if err != nil {
		outcome.notify(NoticeWarning, "Could not end the session.", err)
		return
	}

	outcome.Summary = &summary
	outcome.notify(NoticeSuccess, fmt.Sprintf("Session complete: %d minutes focused, %d tasks done.", summary.FocusMinutes, summary.TasksCompleted), nil)
}

// pickTips draws TipCount distinct tips from the catalog, falling back to the
// built-in tips when the catalog is unavailable or empty.
func (s *SessionService) pickTips(ctx context.Context) []domain.Tip {
	pool := domain.DefaultStudyTips
	if s.tips != nil {
		tips, err := s.tips.List(ctx)
		switch {
		case err != nil:
			s.logger.Warn("load study tips", "error", err)
		case len(tips) > 0:
			pool = tips
		}
	}

	pool = slices.Clone(pool)
	shuffle := rand.Shuffle
	if s.rng != nil {
		shuffle = s.rng.Shuffle
	}
	shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	count := min(max(s.settings.TipCount, 0), len(pool))
	return pool[:count]
}

func completionMessage(kind domain.TimerKind) string {
	if kind == domain.TimerBreak {
		return breakCompleteMessage
	}
	return focusCompleteMessage
}

func taskRejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyDescription):
		return "Describe the task before adding it."
	case errors.Is(err, domain.ErrDeadlinePast):
		return "Pick a deadline from today onward."
	case errors.Is(err, domain.ErrUnknownCategory):
		return "Pick a category: urgent, creative, study or general."
	default:
		return "Could not add the task."
	}
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, fmt.Sprintf("%d", value))
	}
	return strings.Join(parts, "/")
}
