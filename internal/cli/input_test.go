package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(in, "Name?", &out)
	require.Error(t, err)
}

func withTerminal(t *testing.T, v bool) {
	t.Helper()
	old := isTerminal
	isTerminal = func() bool { return v }
	t.Cleanup(func() { isTerminal = old })
}

func TestAskConsent(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		input    string
		want     bool
	}{
		{"yes", true, "y\n", true},
		{"full yes", true, "YES\n", true},
		{"no", true, "n\n", false},
		{"empty", true, "\n", false},
		{"eof", true, "", false},
		{"no terminal", false, "y\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTerminal(t, tt.terminal)
			var out bytes.Buffer
			a := &App{reader: bufio.NewReader(strings.NewReader(tt.input)), out: &out}
			assert.Equal(t, tt.want, a.askConsent("Delete?"))
		})
	}
}
