package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	studyLogFileName = "study_log.csv"
	timestampLayout  = "2006-01-02 15:04:05"
)

var studyLogHeader = []string{"start_time", "end_time", "net_duration_minutes", "date", "day_of_week"}

// StudyLog appends completed study sessions to a CSV file. The file is
// append-only: rows are never rewritten or truncated. Write failures are
// reported and swallowed; logging is best-effort relative to the timer.
type StudyLog struct {
	path string
}

// NewStudyLog creates the logger and, if the file does not exist yet,
// writes it with the header row.
func NewStudyLog(path string) *StudyLog {
	studyLog := &StudyLog{path: path}
	if err := studyLog.ensureFile(); err != nil {
		log.Printf("study log: %v", err)
	}
	return studyLog
}

// DefaultStudyLogPath resolves the per-user log file location.
func DefaultStudyLogPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, studyLogFileName), nil
}

// Path returns the log file path.
func (studyLog *StudyLog) Path() string {
	return studyLog.path
}

// Record appends one completed session. It is a no-op unless start and
// end are set and the net duration is positive.
func (studyLog *StudyLog) Record(start, end time.Time, net time.Duration) {
	if start.IsZero() || end.IsZero() || net <= 0 {
		return
	}

	if err := studyLog.ensureFile(); err != nil {
		log.Printf("study log: %v", err)
		return
	}

	row := []string{
		start.Format(timestampLayout),
		end.Format(timestampLayout),
		fmt.Sprintf("%.2f", net.Minutes()),
		start.Format("2006-01-02"),
		start.Weekday().String(),
	}
	if err := studyLog.appendRow(row); err != nil {
		log.Printf("study log: %v", err)
	}
}

func (studyLog *StudyLog) ensureFile() error {
	if _, err := os.Stat(studyLog.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat log file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(studyLog.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	return studyLog.appendRow(studyLogHeader)
}

func (studyLog *StudyLog) appendRow(row []string) error {
	file, err := os.OpenFile(studyLog.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("write log row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush log row: %w", err)
	}
	return nil
}
