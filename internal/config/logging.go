package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Logging struct {
	Level logrus.Level
	File  string
}

func NewLogging() (*Logging, error) {
	level := logrus.InfoLevel
	if Development() {
		level = logrus.DebugLevel
	}
	if s, ok := os.LookupEnv("LOG_LEVEL"); ok {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		level = parsed
	}
	return &Logging{
		Level: level,
		File:  os.Getenv("LOG_FILE"),
	}, nil
}

// Apply configures an engine logger: level, formatter and, when LOG_FILE is
// set, a rotating JSON file.
func (l Logging) Apply(log *logrus.Logger) error {
	log.SetLevel(l.Level)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: Development()})

	if l.File == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   l.File,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      l.Level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to create log file hook: %w", err)
	}
	log.AddHook(hook)
	return nil
}
