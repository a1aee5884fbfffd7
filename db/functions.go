package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/trimstrip-cli/trim"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("db: not found")

// EnsureVideo returns the video row for path, inserting it if missing. A
// known duration is written to the row so it stays current.
func EnsureVideo(db *sql.DB, path string, duration trim.TimeValue) (*Video, error) {
	v, err := SelectVideoByPath(db, path)
	if err == nil {
		if duration.Ticks > 0 && (v.DurationTicks != duration.Ticks || v.Timescale != duration.Timescale) {
			if _, err := db.Exec(UpdateVideoDurationSQL, duration.Ticks, duration.Timescale, v.ID); err != nil {
				return nil, fmt.Errorf("update video duration: %w", err)
			}
			v.DurationTicks, v.Timescale = duration.Ticks, duration.Timescale
		}
		return v, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	timescale := duration.Timescale
	if timescale <= 0 {
		timescale = trim.DefaultTimescale
	}
	result, err := db.Exec(InsertVideoSQL, path, base, ext, duration.Ticks, timescale)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get video id: %w", err)
	}
	return &Video{ID: id, Path: path, Filename: base, Extension: ext, DurationTicks: duration.Ticks, Timescale: timescale}, nil
}

// SelectVideoByPath returns the video stored for path or ErrNotFound.
func SelectVideoByPath(db *sql.DB, path string) (*Video, error) {
	return scanVideo(db.QueryRow(SelectVideoByPathSQL, path))
}

// SelectVideoByID returns the video with the given ID or ErrNotFound.
func SelectVideoByID(db *sql.DB, id int64) (*Video, error) {
	return scanVideo(db.QueryRow(SelectVideoByIDSQL, id))
}

func scanVideo(row *sql.Row) (*Video, error) {
	var v Video
	err := row.Scan(&v.ID, &v.Path, &v.Filename, &v.Extension, &v.DurationTicks, &v.Timescale, &v.StopTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select video: %w", err)
	}
	return &v, nil
}

// UpdateVideoStopTime records where playback stood when the video was closed.
func UpdateVideoStopTime(db *sql.DB, videoID int64, seconds float64) error {
	if _, err := db.Exec(UpdateVideoStopTimeSQL, seconds, videoID); err != nil {
		return fmt.Errorf("update video stop time: %w", err)
	}
	return nil
}

// InsertTrim stores a trim window for a video and returns its ID. Both times
// are stored in the start time's timescale.
func InsertTrim(db *sql.DB, videoID int64, w trim.Window, label string) (int64, error) {
	ts := w.Start.Timescale
	end := w.End.ConvertScale(ts)
	if !w.Start.Before(end) {
		return 0, fmt.Errorf("insert trim: end %s is not after start %s", w.End, w.Start)
	}
	result, err := db.Exec(InsertTrimSQL, videoID, w.Start.Ticks, end.Ticks, ts, label)
	if err != nil {
		return 0, fmt.Errorf("insert trim: %w", err)
	}
	return result.LastInsertId()
}

// SelectTrimsByVideo returns a video's trims, oldest first.
func SelectTrimsByVideo(db *sql.DB, videoID int64) ([]Trim, error) {
	rows, err := db.Query(SelectTrimsByVideoSQL, videoID)
	if err != nil {
		return nil, fmt.Errorf("select trims: %w", err)
	}
	defer rows.Close()

	var trims []Trim
	for rows.Next() {
		var t Trim
		if err := rows.Scan(&t.ID, &t.VideoID, &t.StartTicks, &t.EndTicks, &t.Timescale, &t.Label, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trim: %w", err)
		}
		trims = append(trims, t)
	}
	return trims, rows.Err()
}

// SelectLatestTrim returns the most recently saved trim of a video or
// ErrNotFound.
func SelectLatestTrim(db *sql.DB, videoID int64) (*Trim, error) {
	return scanTrim(db.QueryRow(SelectLatestTrimSQL, videoID))
}

// SelectTrimByID returns the trim with the given ID or ErrNotFound.
func SelectTrimByID(db *sql.DB, id int64) (*Trim, error) {
	return scanTrim(db.QueryRow(SelectTrimByIDSQL, id))
}

func scanTrim(row *sql.Row) (*Trim, error) {
	var t Trim
	err := row.Scan(&t.ID, &t.VideoID, &t.StartTicks, &t.EndTicks, &t.Timescale, &t.Label, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select trim: %w", err)
	}
	return &t, nil
}

// DeleteTrim removes a trim by ID. Deleting a missing trim returns ErrNotFound.
func DeleteTrim(db *sql.DB, id int64) error {
	result, err := db.Exec(DeleteTrimSQL, id)
	if err != nil {
		return fmt.Errorf("delete trim: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trim: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
