// Package domain defines the case-management entities written by the seeder.
// Each entity knows its table, its column record and, where it has one, its
// natural key.
package domain

import (
	"time"
)

// TimestampLayout is the fixed-width UTC layout used for every stored
// timestamp so that lexical and chronological order agree.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t in TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a value written by Timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

type Role string

const (
	RoleLawyer    Role = "lawyer"
	RoleParalegal Role = "paralegal"
	RoleClient    Role = "client"
	RoleAdmin     Role = "admin"
)

type CaseStatus string

const (
	StatusOpen     CaseStatus = "open"
	StatusPending  CaseStatus = "pending"
	StatusClosed   CaseStatus = "closed"
	StatusArchived CaseStatus = "archived"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type MessageType string

const (
	MessageText         MessageType = "text"
	MessageFile         MessageType = "file"
	MessageSystem       MessageType = "system"
	MessageNotification MessageType = "notification"
)

// MessageTypes lists every MessageType.
var MessageTypes = []MessageType{MessageText, MessageFile, MessageSystem, MessageNotification}

type EventType string

const (
	EventMeeting   EventType = "meeting"
	EventCourtDate EventType = "court_date"
	EventDeadline  EventType = "deadline"
	EventReminder  EventType = "reminder"
)

// EventTypes lists every EventType.
var EventTypes = []EventType{EventMeeting, EventCourtDate, EventDeadline, EventReminder}

// Table names.
const (
	TablePracticeAreas    = "practice_areas"
	TableLawFirms         = "law_firms"
	TableUsers            = "users"
	TableCases            = "cases"
	TableCaseParticipants = "case_participants"
	TableMessages         = "messages"
	TableNotes            = "notes"
	TableCalendarEvents   = "calendar_events"
)
