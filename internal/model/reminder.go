package model

import "time"

// ReminderType denotes how far before expiration a reminder fires.
type ReminderType string

const (
	ReminderThirtyDay ReminderType = "30_day"
	ReminderSevenDay  ReminderType = "7_day"
	ReminderDayOf     ReminderType = "day_of"
)

// ParseReminderType validates s against the known reminder types.
func ParseReminderType(s string) (ReminderType, bool) {
	switch t := ReminderType(s); t {
	case ReminderThirtyDay, ReminderSevenDay, ReminderDayOf:
		return t, true
	}
	return "", false
}

// ReminderLog is an append-only record of a sent reminder.
// CycleDate is the requirement's expiration date at send time.
type ReminderLog struct {
	ID            string       `json:"id"`
	RequirementID string       `json:"requirement_id"`
	ReminderType  ReminderType `json:"reminder_type"`
	CycleDate     time.Time    `json:"cycle_date"`
	SentAt        time.Time    `json:"sent_at"`
	EmailTo       string       `json:"email_to"`
}
