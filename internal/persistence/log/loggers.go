package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"colonycraft.ai/internal/sim/world"
)

const (
	hourLayout    = "2006-01-02-15"
	segmentSuffix = ".jsonl.zst"
	bufferSize    = 128 * 1024
)

// segment is one open hourly file. Every Open appends a new zstd frame, so a
// file written across restarts still decodes as a single stream.
type segment struct {
	hour string
	f    *os.File
	enc  *zstd.Encoder
	buf  *bufio.Writer
	json *json.Encoder
}

func openSegment(path, hour string) (*segment, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	buf := bufio.NewWriterSize(enc, bufferSize)
	return &segment{hour: hour, f: f, enc: enc, buf: buf, json: json.NewEncoder(buf)}, nil
}

// append writes v as one line and flushes it through the compressor so a
// reader sees complete lines while the run is still going.
func (s *segment) append(v any) error {
	if err := s.json.Encode(v); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	return s.enc.Flush()
}

func (s *segment) close() error {
	_ = s.buf.Flush()
	err := s.enc.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// hourlyLog writes records to <dir>/<prefix>-<YYYY-MM-DD-HH>.jsonl.zst,
// switching files when the UTC hour changes.
type hourlyLog struct {
	dir    string
	prefix string
	now    func() time.Time

	mu      sync.Mutex
	cur     *segment
	lines   uint64
	opened  int
	lastErr error
}

func newHourlyLog(dir, prefix string) *hourlyLog {
	return &hourlyLog{dir: dir, prefix: prefix, now: time.Now}
}

func (l *hourlyLog) path(hour string) string {
	return filepath.Join(l.dir, fmt.Sprintf("%s-%s%s", l.prefix, hour, segmentSuffix))
}

func (l *hourlyLog) write(v any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	hour := l.now().UTC().Format(hourLayout)
	if l.cur == nil || l.cur.hour != hour {
		if l.cur != nil {
			if err := l.cur.close(); err != nil {
				l.cur = nil
				return l.fail(err)
			}
		}
		seg, err := openSegment(l.path(hour), hour)
		if err != nil {
			l.cur = nil
			return l.fail(err)
		}
		l.cur = seg
		l.opened++
	}
	if err := l.cur.append(v); err != nil {
		return l.fail(err)
	}
	l.lines++
	return nil
}

func (l *hourlyLog) fail(err error) error {
	l.lastErr = err
	return err
}

func (l *hourlyLog) close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cur == nil {
		return nil
	}
	err := l.cur.close()
	l.cur = nil
	return err
}

// Stats reports what a log has written since it was created.
type Stats struct {
	Lines   uint64
	Files   int
	LastErr error
}

func (l *hourlyLog) stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Lines: l.lines, Files: l.opened, LastErr: l.lastErr}
}

func TickDir(worldDir string) string  { return filepath.Join(worldDir, "ticks") }
func AuditDir(worldDir string) string { return filepath.Join(worldDir, "audit") }

// TickLogger records one line per simulated tick.
type TickLogger struct{ w *hourlyLog }

func NewTickLogger(worldDir string) *TickLogger {
	return &TickLogger{w: newHourlyLog(TickDir(worldDir), "ticks")}
}

func (l *TickLogger) WriteTick(e world.TickLogEntry) error { return l.w.write(e) }
func (l *TickLogger) Stats() Stats                         { return l.w.stats() }
func (l *TickLogger) Close() error                         { return l.w.close() }

// AuditLogger records attacks, kills, pickups and the like.
type AuditLogger struct{ w *hourlyLog }

func NewAuditLogger(worldDir string) *AuditLogger {
	return &AuditLogger{w: newHourlyLog(AuditDir(worldDir), "audit")}
}

func (l *AuditLogger) WriteAudit(e world.AuditEntry) error { return l.w.write(e) }
func (l *AuditLogger) Stats() Stats                        { return l.w.stats() }
func (l *AuditLogger) Close() error                        { return l.w.close() }
