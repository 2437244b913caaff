package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickerSimpleChoosesNumber(t *testing.T) {
	var out bytes.Buffer
	p := NewPicker("Выберите набор", []string{"Здоровье", "Работа"}, false).
		WithIO(strings.NewReader("2\n"), &out)

	idx, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "[1] Здоровье")
}

func TestPickerSimpleRejectsOutOfRange(t *testing.T) {
	for _, input := range []string{"7\n", "abc\n", ""} {
		p := NewPicker("Выберите", []string{"a"}, false).WithIO(strings.NewReader(input), &bytes.Buffer{})
		_, err := p.Run()
		assert.ErrorIs(t, err, ErrCancelled, input)
	}
}

func TestPickerNoOptions(t *testing.T) {
	_, err := NewPicker("Пусто", nil, false).WithIO(strings.NewReader("1\n"), &bytes.Buffer{}).Run()
	assert.Error(t, err)
}

func TestPickerWrapsAround(t *testing.T) {
	p := NewPicker("x", []string{"a", "b", "c"}, false)
	p.moveUp()
	assert.Equal(t, 2, p.selected)
	p.moveDown()
	assert.Equal(t, 0, p.selected)
}
