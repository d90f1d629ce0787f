package logging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogData gathers the fields and timings of one request or command so they
// land on a single log line. Safe for concurrent use.
type LogData struct {
	mu      sync.Mutex
	fields  logrus.Fields
	timings map[string]int64
	logger  *logrus.Logger
}

func NewLogData(logger *logrus.Logger) *LogData {
	return &LogData{
		fields:  logrus.Fields{},
		timings: map[string]int64{},
		logger:  logger,
	}
}

// AddTiming starts a stopwatch; calling the returned func records the
// elapsed milliseconds under name, replacing any earlier value.
func (l *LogData) AddTiming(name string) func() {
	start := time.Now()
	return func() {
		l.setTiming(name, time.Since(start).Milliseconds(), false)
	}
}

// AddToExistingTiming is AddTiming for work split over several calls, such
// as per-rule steps of a recurring run.
func (l *LogData) AddToExistingTiming(name string) func() {
	start := time.Now()
	return func() {
		l.setTiming(name, time.Since(start).Milliseconds(), true)
	}
}

func (l *LogData) setTiming(name string, ms int64, accumulate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if accumulate {
		ms += l.timings[name]
	}
	l.timings[name] = ms
}

func (l *LogData) AddData(key string, value interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fields[key] = value
}

// Log returns an entry carrying every field and timing collected so far.
func (l *LogData) Log() *logrus.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(logrus.Fields, len(l.fields)+len(l.timings))
	for key, value := range l.fields {
		fields[key] = value
	}
	for key, ms := range l.timings {
		fields[key] = ms
	}
	return l.logger.WithFields(fields)
}
