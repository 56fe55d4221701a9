// Package logging routes the grailbio log package to a writer at a chosen level.
package logging

import (
	"io"
	golog "log"
	"strings"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// ErrUnknownLevel is returned for a level name that is not recognised.
var ErrUnknownLevel = errors.New("unknown log level")

var levels = map[string]log.Level{
	"error": log.Error,
	"info":  log.Info,
	"debug": log.Debug,
}

var prefixes = map[log.Level]string{
	log.Error: "ERROR ",
	log.Info:  "",
	log.Debug: "DEBUG ",
}

// ParseLevel parses "error", "info" or "debug".
func ParseLevel(name string) (log.Level, error) {
	level, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return log.Info, errors.Wrapf(ErrUnknownLevel, "%q", name)
	}

	return level, nil
}

// Outputter writes the messages at or below its level.
type Outputter struct {
	mu     sync.Mutex
	level  log.Level
	logger *golog.Logger
}

// NewOutputter creates an outputter writing to w.
func NewOutputter(w io.Writer, level log.Level) *Outputter {
	return &Outputter{
		level:  level,
		logger: golog.New(w, "", golog.LstdFlags),
	}
}

func (o *Outputter) Level() log.Level {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.level
}

// SetLevel changes the level of the outputter.
func (o *Outputter) SetLevel(level log.Level) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.level = level
}

func (o *Outputter) Output(calldepth int, level log.Level, s string) error {
	if level > o.Level() {
		return nil
	}

	return o.logger.Output(calldepth+1, prefixes[level]+s)
}

// Setup sends the log messages up to the named level to w.
func Setup(w io.Writer, levelName string) (*Outputter, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	out := NewOutputter(w, level)
	log.SetOutputter(out)

	return out, nil
}

var _ log.Outputter = (*Outputter)(nil)
