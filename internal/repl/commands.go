package repl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notexe/voice-reminder/internal/reminder"
	"github.com/notexe/voice-reminder/internal/session"
	"github.com/notexe/voice-reminder/internal/ui"
)

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/add", "/a":
		return r.addReminder(ctx, args)

	case "/list", "/l":
		r.displayList()
		return nil

	case "/done", "/d":
		rem, err := r.resolve(args)
		if err != nil {
			return err
		}
		if err := r.withStatus("Сохранение...", func() error { return r.store.ToggleDone(ctx, rem.ID) }); err != nil {
			return err
		}
		r.displayList()
		return nil

	case "/rm", "/del":
		rem, err := r.resolve(args)
		if err != nil {
			return err
		}
		if err := r.withStatus("Удаление...", func() error { return r.store.Remove(ctx, rem.ID) }); err != nil {
			return err
		}
		r.displaySuccess("Удалено: " + rem.Text)
		return nil

	case "/note", "/n":
		num, text, _ := strings.Cut(args, " ")
		rem, err := r.resolve(num)
		if err != nil {
			return err
		}
		if err := r.store.AttachNote(rem.ID, text); err != nil {
			return err
		}
		r.displaySuccess("Заметка сохранена.")
		return nil

	case "/sort":
		if !r.config.Features.Sorting {
			return fmt.Errorf("сортировка отключена")
		}
		order, err := session.ParseOrder(args)
		if err != nil {
			return fmt.Errorf("usage: /sort date|status")
		}
		r.store.SetOrder(order)
		r.displayList()
		return nil

	case "/audio":
		return r.handleAudio(args)

	case "/start":
		r.announcer.Start()
		r.displaySystem(fmt.Sprintf("Напоминания запущены: каждые %d секунд.", int(r.announcer.Interval().Seconds())))
		return nil

	case "/stop":
		r.announcer.Stop()
		r.displaySystem("Напоминания остановлены.")
		return nil

	case "/blink":
		switch strings.ToLower(args) {
		case "on", "":
			r.blinker.Enable()
			r.displaySystem("Мигание фона включено.")
		case "off":
			r.blinker.Disable()
			r.displaySystem("Мигание фона отключено.")
		default:
			return fmt.Errorf("usage: /blink on|off")
		}
		return nil

	case "/bundle", "/b":
		return r.handleBundle(ctx, args)

	case "/quick":
		return r.handleQuick(ctx, args)

	default:
		return fmt.Errorf("неизвестная команда: %s (введите /help)", command)
	}
}

func (r *REPL) addReminder(ctx context.Context, text string) error {
	var rem reminder.Reminder
	err := r.withStatus("Сохранение...", func() error {
		var err error
		rem, err = r.store.Add(ctx, text)
		return err
	})
	if err != nil {
		return err
	}

	r.displaySuccess("Добавлено: " + rem.Text)
	if !r.gate.Enabled() {
		r.println(r.formatter.FormatAudioHint())
	}
	return nil
}

func (r *REPL) handleAudio(args string) error {
	switch strings.ToLower(args) {
	case "", "on":
		if !r.gate.Available() {
			r.displayInfo("Синтез речи недоступен: напоминания будут только на экране.")
		}
		r.gate.Enable()
		r.displaySystem("Аудио включено.")
	case "off":
		r.gate.Disable()
		r.displaySystem("Аудио выключено.")
	default:
		return fmt.Errorf("usage: /audio [off]")
	}
	return nil
}

// handleBundle adds every reminder of a bundle. A failed item is reported
// and the rest are still added.
func (r *REPL) handleBundle(ctx context.Context, args string) error {
	bundle, err := r.findBundle(args)
	if isCancelled(err) {
		r.displaySystem("Выбор отменён.")
		return nil
	}
	if err != nil {
		return err
	}

	added := 0
	for _, text := range bundle.Items {
		if _, err := r.store.Add(ctx, text); err != nil {
			r.displayError(fmt.Errorf("%s: %w", text, err))
			continue
		}
		added++
	}

	r.displaySuccess(fmt.Sprintf("Набор «%s»: добавлено %d из %d.", bundle.Name, added, len(bundle.Items)))
	return nil
}

func (r *REPL) findBundle(args string) (Bundle, error) {
	if args == "" {
		idx, err := r.pick("Выберите набор напоминаний", bundleNames())
		if err != nil {
			return Bundle{}, err
		}
		return Bundles[idx], nil
	}

	if n, err := strconv.Atoi(args); err == nil {
		if n < 1 || n > len(Bundles) {
			return Bundle{}, fmt.Errorf("нет набора с номером %d", n)
		}
		return Bundles[n-1], nil
	}

	for _, b := range Bundles {
		if strings.EqualFold(b.Name, args) {
			return b, nil
		}
	}
	return Bundle{}, fmt.Errorf("неизвестный набор: %s (доступны: %s)", args, strings.Join(bundleNames(), ", "))
}

func (r *REPL) handleQuick(ctx context.Context, args string) error {
	r.mu.Lock()
	items := append([]string(nil), r.quick...)
	r.mu.Unlock()

	switch {
	case args == "":
		r.println(r.formatter.FormatNumbered("Часто задаваемые задания:", items))
		return nil

	case strings.HasPrefix(args, "+"):
		text := strings.TrimSpace(strings.TrimPrefix(args, "+"))
		if text == "" {
			return fmt.Errorf("usage: /quick + <текст>")
		}
		r.mu.Lock()
		r.quick = append(r.quick, text)
		r.mu.Unlock()
		r.displaySuccess("Добавлено в часто задаваемые: " + text)
		return nil

	default:
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 || n > len(items) {
			return fmt.Errorf("нет задания с номером %s", args)
		}
		return r.addReminder(ctx, items[n-1])
	}
}

// resolve maps a list number as shown by /list to its reminder.
func (r *REPL) resolve(arg string) (reminder.Reminder, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("%w: укажите номер напоминания", reminder.ErrValidation)
	}

	view := r.store.View()
	if n < 1 || n > len(view) {
		return reminder.Reminder{}, fmt.Errorf("%w: нет напоминания с номером %d", reminder.ErrNotFound, n)
	}
	return view[n-1], nil
}

func (r *REPL) withStatus(msg string, fn func() error) error {
	r.status.Show(msg)
	err := fn()
	r.status.Hide()
	return err
}

// isCancelled reports whether the picker was left without a choice.
func isCancelled(err error) bool {
	return errors.Is(err, ui.ErrCancelled)
}
