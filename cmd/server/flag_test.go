package main

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMainFlags(t *testing.T) {
	defaults := mainFlags{
		port:          defaultPort,
		wordsFile:     defaultWordsFile,
		scoresBackend: defaultScoresBackend,
		scoresFile:    defaultScoresFile,
	}
	newMainFlagsTests := []struct {
		name    string
		osArgs  []string
		envVars map[string]string
		mutate  func(m *mainFlags)
	}{
		{
			name: "no args",
		},
		{
			name:   "empty osArgs slice",
			osArgs: []string{},
		},
		{
			name:   "port from command line",
			osArgs: []string{"", "-port=8001"},
			mutate: func(m *mainFlags) { m.port = 8001 },
		},
		{
			name:    "port from environment",
			envVars: map[string]string{"PORT": "8002"},
			mutate:  func(m *mainFlags) { m.port = 8002 },
		},
		{
			name:    "command line beats environment",
			osArgs:  []string{"", "-port=8003"},
			envVars: map[string]string{"PORT": "8004"},
			mutate:  func(m *mainFlags) { m.port = 8003 },
		},
		{
			name:    "bad environment port ignored",
			envVars: map[string]string{"PORT": "eighty"},
		},
		{
			name:   "debug game flag",
			osArgs: []string{"", "-debug-game"},
			mutate: func(m *mainFlags) { m.debugGame = true },
		},
		{
			name:    "debug game from environment presence",
			envVars: map[string]string{"DEBUG_MESSAGES": ""},
			mutate:  func(m *mainFlags) { m.debugGame = true },
		},
		{
			name: "all command line",
			osArgs: []string{
				"",
				"-port=1",
				"-words-file=2",
				"-scores-backend=postgres",
				"-scores-file=4",
				"-data-source=5",
				"-mongo-url=6",
				"-firestore-project-id=7",
				"-allowed-origin=8",
				"-debug-game",
				"-monitor",
			},
			mutate: func(m *mainFlags) {
				*m = mainFlags{
					port:               1,
					wordsFile:          "2",
					scoresBackend:      "postgres",
					scoresFile:         "4",
					databaseURL:        "5",
					mongoURL:           "6",
					firestoreProjectID: "7",
					allowedOrigin:      "8",
					debugGame:          true,
					monitor:            true,
				}
			},
		},
		{
			name: "all environment",
			envVars: map[string]string{
				"PORT":                 "1",
				"WORDS_FILE":           "2",
				"SCORES_BACKEND":       "mongo",
				"SCORES_FILE":          "4",
				"DATABASE_URL":         "5",
				"MONGO_URL":            "6",
				"FIRESTORE_PROJECT_ID": "7",
				"ALLOWED_ORIGIN":       "8",
				"MONITOR":              "",
			},
			mutate: func(m *mainFlags) {
				*m = mainFlags{
					port:               1,
					wordsFile:          "2",
					scoresBackend:      "mongo",
					scoresFile:         "4",
					databaseURL:        "5",
					mongoURL:           "6",
					firestoreProjectID: "7",
					allowedOrigin:      "8",
					monitor:            true,
				}
			},
		},
	}
	for _, test := range newMainFlagsTests {
		t.Run(test.name, func(t *testing.T) {
			osLookupEnvFunc := func(key string) (string, bool) {
				v, ok := test.envVars[key]
				return v, ok
			}
			want := defaults
			if test.mutate != nil {
				test.mutate(&want)
			}
			got := newMainFlags(test.osArgs, osLookupEnvFunc)
			assert.Equal(t, want, got)
		})
	}
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	var m mainFlags
	osLookupEnvFunc := func(key string) (string, bool) {
		return "", false
	}
	fs := m.newFlagSet(osLookupEnvFunc)
	fs.SetOutput(&buf)
	usage(fs)
	got := buf.String()
	assert.Contains(t, got, "PORT", "usage should name the environment variables")
	assert.Contains(t, got, "-scores-backend", "usage should print flag defaults")
	if fs.ErrorHandling() != flag.ExitOnError {
		t.Error("wanted flagset to exit on error")
	}
	if strings.Count(got, "\n") < 5 {
		t.Errorf("wanted multiline usage, got %q", got)
	}
}
