package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Команды

| Команда | Действие |
|---|---|
| *текст* или ` + "`/add <текст>`" + ` | добавить напоминание |
| ` + "`/list`" + ` | показать напоминания и выполненные дела |
| ` + "`/done <n>`" + ` | отметить или снять отметку выполнения |
| ` + "`/rm <n>`" + ` | удалить напоминание |
| ` + "`/note <n> <текст>`" + ` | добавить заметку |
| ` + "`/sort date\\|status`" + ` | порядок отображения |
| ` + "`/audio`" + ` | включить звук |
| ` + "`/start`" + `, ` + "`/stop`" + ` | начать или остановить напоминания |
| ` + "`/blink on\\|off`" + ` | мигание фона |
| ` + "`/bundle [название]`" + ` | добавить набор напоминаний |
| ` + "`/quick [n\\|+ текст]`" + ` | часто задаваемые задания |
| ` + "`/quit`" + ` | выход |

Ctrl+C или Ctrl+D для выхода.
`

// FormatHelp renders the command reference. Markdown is rendered with
// glamour when colors are on.
func (f *Formatter) FormatHelp() string {
	if !f.colored {
		return helpMarkdown
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return helpMarkdown
	}

	rendered, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}

	return strings.TrimRight(rendered, "\n") + "\n"
}
