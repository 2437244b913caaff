package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
)

func (r *REPL) readInput() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (r *REPL) parseCommand(input string) (bool, string, string) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, command, args
}

var commandCompleter = readline.NewPrefixCompleter(
	readline.PcItem("/add"),
	readline.PcItem("/list"),
	readline.PcItem("/done"),
	readline.PcItem("/rm"),
	readline.PcItem("/note"),
	readline.PcItem("/sort", readline.PcItem("date"), readline.PcItem("status")),
	readline.PcItem("/audio", readline.PcItem("off")),
	readline.PcItem("/start"),
	readline.PcItem("/stop"),
	readline.PcItem("/blink", readline.PcItem("on"), readline.PcItem("off")),
	readline.PcItem("/bundle"),
	readline.PcItem("/quick"),
	readline.PcItem("/help"),
	readline.PcItem("/quit"),
)

func setupReadline(prompt string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:              prompt,
		HistoryFile:         "",
		AutoComplete:        commandCompleter,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return err == io.EOF || err == readline.ErrInterrupt
}
