package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"stops on empty line", "a\nb\n\nc\n", "a\nb"},
		{"windows newlines", "a\r\nb\r\n\r\n", "a\nb"},
		{"immediate empty line", "\n", ""},
		{"eof without blank line", "a\nb", "a\nb"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tc.input), "Note", &out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Contains(t, out.String(), "Enter password")

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(&out)
	require.Error(t, err)
}

func TestGetDate(t *testing.T) {
	def := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		def   time.Time
		want  time.Time
	}{
		{"date only", "2024-06-02\n", time.Time{}, time.Date(2024, 6, 2, 0, 0, 0, 0, time.Local)},
		{"date and time", "2024-06-02 14:30\n", time.Time{}, time.Date(2024, 6, 2, 14, 30, 0, 0, time.Local)},
		{"rfc3339", "2024-06-02T14:30:00Z\n", time.Time{}, time.Date(2024, 6, 2, 14, 30, 0, 0, time.UTC)},
		{"empty takes default", "\n", def, def},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetDate(rdr(tc.input), "Date", tc.def, &out)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %v, want %v", got, tc.want)
		})
	}
}

func TestGetDate_Bad(t *testing.T) {
	var out bytes.Buffer

	_, err := GetDate(rdr("02/06/2024\n"), "Date", time.Time{}, &out)
	require.ErrorIs(t, err, ErrBadDate)

	_, err = GetDate(rdr("\n"), "Date", time.Time{}, &out)
	require.ErrorIs(t, err, ErrBadDate)
}

func TestGetOptional(t *testing.T) {
	var out bytes.Buffer

	got, err := GetOptional(rdr("train\n"), "Transition", &out)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "train", *got)
	assert.Contains(t, out.String(), "(optional)")

	got, err = GetOptional(rdr("\n"), "Transition", &out)
	require.NoError(t, err)
	assert.Nil(t, got)
}
