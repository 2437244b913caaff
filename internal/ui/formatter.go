// Package ui renders the reminder console: list and counters, prompts,
// help, the loading spinner and the bundle picker.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/voice-reminder/internal/reminder"
	"github.com/notexe/voice-reminder/internal/session"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Medium gray
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Yellow
			Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple

	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("222")).
			Bold(true)

	// AlertStyle is the prompt background while the blinker shows its alert color.
	AlertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("196")).
			Bold(true)
)

type Formatter struct {
	colored bool
	now     func() time.Time
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{
		colored: colored,
		now:     time.Now,
	}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Ошибка: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatSystem(msg string) string {
	return f.render(SystemStyle, msg)
}

func (f *Formatter) FormatStatus(msg string) string {
	return f.render(StatusStyle, msg)
}

func (f *Formatter) FormatSuccess(msg string) string {
	return f.render(SuccessStyle, "✓ ") + msg
}

// FormatAnnouncement renders a line for a spoken reminder.
func (f *Formatter) FormatAnnouncement(text string) string {
	return f.render(AccentStyle, "🔊 "+text)
}

// FormatAudioHint is shown while speech is off.
func (f *Formatter) FormatAudioHint() string {
	return f.render(WarningStyle, "Включите звук для работы напоминаний.") +
		f.render(DimStyle, " (/audio)")
}

// FormatAge renders how long ago a reminder was created, in whole minutes.
func FormatAge(age time.Duration) string {
	return fmt.Sprintf("(%d минут назад)", int(age/time.Minute))
}

// FormatReminderList renders reminders numbered from 1. The reminder with
// highlightID, if any, is marked as the one announced last.
func (f *Formatter) FormatReminderList(view []reminder.Reminder, highlightID int64) string {
	if len(view) == 0 {
		return f.render(DimStyle, "Список напоминаний пуст. Введите текст, чтобы добавить.")
	}

	now := f.now()
	lines := make([]string, 0, len(view)+1)
	lines = append(lines, f.render(HeaderStyle, "Напоминания"))

	for i, r := range view {
		box := "[ ]"
		text := r.Text
		if r.Done {
			box = "[x]"
			text = f.render(DoneStyle, text)
		} else if r.ID == highlightID {
			text = f.render(HighlightStyle, text)
		}

		line := fmt.Sprintf("%2d. %s %s %s", i+1, box, text, f.render(DimStyle, FormatAge(r.Age(now))))
		lines = append(lines, line)

		if r.Note != "" {
			lines = append(lines, "      "+f.render(SystemStyle, "Заметка: "+r.Note))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatCompleted renders the counters and the done reminders.
func (f *Formatter) FormatCompleted(snap session.Snapshot) string {
	lines := []string{
		f.render(InfoStyle, fmt.Sprintf("Общее количество выполненных дел: %d", snap.CompletedCount)),
		f.render(DimStyle, fmt.Sprintf("Отметок выполнения: %d", snap.CheckboxCount)),
	}

	var done []string
	for _, r := range snap.Reminders {
		if r.Done {
			done = append(done, "  • "+r.Text)
		}
	}
	if len(done) > 0 {
		lines = append(lines, f.render(HeaderStyle, "Выполненные дела:"))
		lines = append(lines, done...)
	}

	return strings.Join(lines, "\n")
}

// FormatNumbered renders a numbered list of plain texts.
func (f *Formatter) FormatNumbered(title string, items []string) string {
	lines := []string{f.render(HeaderStyle, title)}
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%s %s", f.render(DimStyle, fmt.Sprintf("%2d.", i+1)), item))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) FormatWelcome(transport string, speechAvailable bool) string {
	speech := "недоступен"
	if speechAvailable {
		speech = "доступен"
	}

	if !f.colored {
		return strings.Join([]string{
			"",
			"Голосовое напоминание",
			fmt.Sprintf("Хранилище: %s, синтез речи: %s", transport, speech),
			"Введите /help для списка команд",
			"",
		}, "\n")
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("114"))

	body := strings.Join([]string{
		HeaderStyle.Render("Голосовое напоминание"),
		labelStyle.Render("Хранилище: ") + valueStyle.Render(transport),
		labelStyle.Render("Синтез речи: ") + valueStyle.Render(speech),
		"",
		StatusStyle.Render("Введите /help для списка команд"),
	}, "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	return "\n" + box.Render(body) + "\n"
}

// FormatPrompt returns the input prompt. alert switches it to the alert color.
func (f *Formatter) FormatPrompt(alert bool) string {
	if !f.colored {
		if alert {
			return "(!) напоминание > "
		}
		return "напоминание > "
	}

	if alert {
		return AlertStyle.Render(" напоминание ") + " > "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render("напоминание") +
		SuccessStyle.Render(" > ")
}
