package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

const (
	environmentVariablePort             = "PORT"
	environmentVariableWordsFile        = "WORDS_FILE"
	environmentVariableScoresBackend    = "SCORES_BACKEND"
	environmentVariableScoresFile       = "SCORES_FILE"
	environmentVariableDatabaseURL      = "DATABASE_URL"
	environmentVariableMongoURL         = "MONGO_URL"
	environmentVariableFirestoreProject = "FIRESTORE_PROJECT_ID"
	environmentVariableDebugGame        = "DEBUG_MESSAGES"
	environmentVariableAllowedOrigin    = "ALLOWED_ORIGIN"
	environmentVariableMonitor          = "MONITOR"
)

const (
	defaultPort          = 8000
	defaultWordsFile     = "words.txt"
	defaultScoresBackend = "file"
	defaultScoresFile    = "scores.json"
)

// mainFlags are the configuration options which can be easily configured at run startup for different environments.
type mainFlags struct {
	port               int
	wordsFile          string
	scoresBackend      string
	scoresFile         string
	databaseURL        string
	mongoURL           string
	firestoreProjectID string
	allowedOrigin      string
	debugGame          bool
	monitor            bool
}

// usage prints how to run the server to the flagset's output.
func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariablePort,
		environmentVariableWordsFile,
		environmentVariableScoresBackend,
		environmentVariableScoresFile,
		environmentVariableDatabaseURL,
		environmentVariableMongoURL,
		environmentVariableFirestoreProject,
		environmentVariableDebugGame,
		environmentVariableAllowedOrigin,
		environmentVariableMonitor,
	}
	fmt.Fprintf(fs.Output(), "Runs the server\n")
	fmt.Fprintf(fs.Output(), "Reads environment variables when possible: [%s]\n", strings.Join(envVars, ","))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	fs.Usage = func() {
		usage(fs) // [lazy evaluation]
	}
	envValue := func(key, defaultValue string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return defaultValue
	}
	envValueInt := func(key string, defaultValue int) int {
		v1 := envValue(key, "")
		v2, err := strconv.Atoi(v1)
		if err != nil {
			return defaultValue
		}
		return v2
	}
	envPresent := func(key string) bool {
		_, ok := osLookupEnvFunc(key)
		return ok
	}
	fs.IntVar(&m.port, "port", envValueInt(environmentVariablePort, defaultPort), "The TCP port to run the server on.")
	fs.StringVar(&m.wordsFile, "words-file", envValue(environmentVariableWordsFile, defaultWordsFile), "The list of valid lower-case words that can be played.")
	fs.StringVar(&m.scoresBackend, "scores-backend", envValue(environmentVariableScoresBackend, defaultScoresBackend), "The high-score store to use: file, postgres, mongo, or firestore.")
	fs.StringVar(&m.scoresFile, "scores-file", envValue(environmentVariableScoresFile, defaultScoresFile), "The path of the json file the file scores backend persists to.")
	fs.StringVar(&m.databaseURL, "data-source", envValue(environmentVariableDatabaseURL, ""), "The data source to the PostgreSQL database (connection URI).  Used by the postgres scores backend.")
	fs.StringVar(&m.mongoURL, "mongo-url", envValue(environmentVariableMongoURL, ""), "The connection URI of the mongodb server.  Used by the mongo scores backend.")
	fs.StringVar(&m.firestoreProjectID, "firestore-project-id", envValue(environmentVariableFirestoreProject, ""), "The google cloud project id.  Used by the firestore scores backend.")
	fs.StringVar(&m.allowedOrigin, "allowed-origin", envValue(environmentVariableAllowedOrigin, ""), "The origin allowed by CORS headers.  Defaults to any origin.")
	fs.BoolVar(&m.debugGame, "debug-game", envPresent(environmentVariableDebugGame), "Logs message types in the console when messages are passed between components.")
	fs.BoolVar(&m.monitor, "monitor", envPresent(environmentVariableMonitor), "Enables the runtime monitor endpoint.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) mainFlags {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programArgs := osArgs[1:]
	var m mainFlags
	fs := m.newFlagSet(osLookupEnvFunc)
	fs.Parse(programArgs)
	return m
}
