package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintReplay(t *testing.T) {
	pgn := `[Event "Club"]
[White "Ann"]
[Black "Bob"]
[Result "1-0"]

1. e4 e5 1-0
`
	var buf bytes.Buffer
	require.NoError(t, printReplay(&buf, "a.pgn", strings.NewReader(pgn), 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Ann vs Bob (1-0) Club", lines[0])
	assert.Contains(t, lines[1], "Starting position")
	assert.Contains(t, lines[2], "e4")
	assert.Contains(t, lines[3], "e5")
}

func TestPrintReplayGameOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	err := printReplay(&buf, "a.pgn", strings.NewReader("1. e4"), 2)
	assert.Error(t, err)
}

func TestPrintReplayRejectsExtension(t *testing.T) {
	var buf bytes.Buffer
	err := printReplay(&buf, "a.txt", strings.NewReader("1. e4"), 1)
	assert.Error(t, err)
}

func TestAppCommands(t *testing.T) {
	app := newApp()
	names := map[string]bool{}
	for _, c := range app.Commands {
		names[c.Name] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["replay"])
}

func TestReadBuildSettings(t *testing.T) {
	oldCommit, oldDate := commit, buildDate
	defer func() { commit, buildDate = oldCommit, oldDate }()

	commit, buildDate = "dev", ""
	readBuildSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2024-08-07T10:00:00Z"},
	})
	assert.Equal(t, "0123456", commit)
	assert.Equal(t, "2024-08-07", buildDate)
	assert.Equal(t, "0123456 (2024-08-07)", versionString())
}
