package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user leaves the picker without choosing.
var ErrCancelled = errors.New("cancelled")

// Picker is an arrow-key navigable single-choice menu. On a non-terminal
// input it falls back to reading a number.
type Picker struct {
	title    string
	options  []string
	selected int
	colored  bool
	in       io.Reader
	out      io.Writer

	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	optionStyle   lipgloss.Style
	dimStyle      lipgloss.Style
	titleStyle    lipgloss.Style
	hintStyle     lipgloss.Style
}

func NewPicker(title string, options []string, colored bool) *Picker {
	return &Picker{
		title:   title,
		options: options,
		colored: colored,
		in:      os.Stdin,
		out:     os.Stdout,

		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		optionStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		titleStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		hintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// WithIO replaces stdin and stdout.
func (p *Picker) WithIO(in io.Reader, out io.Writer) *Picker {
	p.in = in
	p.out = out
	return p
}

// Run shows the menu and returns the index of the chosen option.
func (p *Picker) Run() (int, error) {
	if len(p.options) == 0 {
		return -1, fmt.Errorf("nothing to choose from")
	}

	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.runSimple()
	}

	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return p.runSimple()
	}
	defer func() {
		term.Restore(fd, oldState)
		fmt.Fprint(p.out, "\033[?25h") // show cursor
	}()

	fmt.Fprint(p.out, "\033[?25l")
	totalLines := len(p.options) + 3
	p.printMenu()

	reader := bufio.NewReader(f)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return -1, err
		}

		choose := false
		switch b {
		case 13, 10, ' ':
			choose = true
		case 3, 'q': // Ctrl+C
			p.clearMenu(totalLines)
			return -1, ErrCancelled
		case 'j':
			p.moveDown()
		case 'k':
			p.moveUp()
		case 27: // escape sequence
			b2, _ := reader.ReadByte()
			if b2 == '[' {
				b3, _ := reader.ReadByte()
				switch b3 {
				case 'A':
					p.moveUp()
				case 'B':
					p.moveDown()
				}
			}
		default:
			if b >= '1' && b <= '9' {
				if idx := int(b - '1'); idx < len(p.options) {
					p.selected = idx
					choose = true
				}
			}
		}

		p.clearMenu(totalLines)
		if choose {
			return p.selected, nil
		}
		p.printMenu()
	}
}

func (p *Picker) printMenu() {
	var sb strings.Builder

	sb.WriteString(p.style(p.titleStyle, p.title))
	sb.WriteString("\r\n")
	sb.WriteString(p.style(p.hintStyle, "[j/k или стрелки] выбор  [enter] подтвердить  [q] отмена"))
	sb.WriteString("\r\n\r\n")

	for i, opt := range p.options {
		if i == p.selected {
			sb.WriteString(p.style(p.cursorStyle, "> "))
			sb.WriteString(p.style(p.selectedStyle, opt))
		} else {
			sb.WriteString(p.style(p.dimStyle, "  "))
			sb.WriteString(p.style(p.optionStyle, opt))
		}
		sb.WriteString("\r\n")
	}

	fmt.Fprint(p.out, sb.String())
}

func (p *Picker) clearMenu(lines int) {
	for i := 0; i < lines; i++ {
		fmt.Fprint(p.out, "\033[A\033[2K\r")
	}
}

func (p *Picker) runSimple() (int, error) {
	fmt.Fprintln(p.out, p.title)
	for i, opt := range p.options {
		fmt.Fprintf(p.out, "  [%d] %s\n", i+1, opt)
	}
	fmt.Fprint(p.out, "Введите номер: ")

	input, err := bufio.NewReader(p.in).ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" && err != nil {
		return -1, ErrCancelled
	}

	n, convErr := strconv.Atoi(input)
	if convErr != nil || n < 1 || n > len(p.options) {
		return -1, ErrCancelled
	}
	return n - 1, nil
}

func (p *Picker) style(s lipgloss.Style, text string) string {
	if p.colored {
		return s.Render(text)
	}
	return text
}

func (p *Picker) moveUp() {
	if p.selected > 0 {
		p.selected--
	} else {
		p.selected = len(p.options) - 1
	}
}

func (p *Picker) moveDown() {
	if p.selected < len(p.options)-1 {
		p.selected++
	} else {
		p.selected = 0
	}
}
