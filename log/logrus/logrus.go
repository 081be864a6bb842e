package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/bucketcache"
)

var _ bucketcache.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New tags every record with component=bucketcache.
func New(l *logrus.Logger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "bucketcache")}
}

func (l LogrusLogger) Debug(msg string, f bucketcache.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f bucketcache.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f bucketcache.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f bucketcache.Fields) { l.with(f).Error(msg) }

// with routes "err" through WithError so hooks and formatters see logrus.ErrorKey.
func (l LogrusLogger) with(f bucketcache.Fields) *logrus.Entry {
	e := l.E
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			e = e.WithError(err)
			continue
		}
		e = e.WithField(k, v)
	}
	return e
}
