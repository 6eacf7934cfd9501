package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/sahilchouksey/campus-events/model"
)

var rosterHeader = []string{"participant_id", "student_name", "student_email", "attended", "registration_date"}

// EncodeRoster renders roster rows as CSV with a header line
func EncodeRoster(participants []model.Participant) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rosterHeader); err != nil {
		return nil, err
	}
	for _, p := range participants {
		record := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.StudentName,
			p.StudentEmail,
			strconv.FormatBool(p.Attended),
			p.RegistrationDate.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RosterFileName is the download and archive name for an event's roster
func RosterFileName(eventID uint, at time.Time) string {
	return "event-" + strconv.FormatUint(uint64(eventID), 10) + "-roster-" + at.UTC().Format("20060102") + ".csv"
}
