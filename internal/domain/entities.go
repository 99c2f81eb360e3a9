package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/johnwards/caseseed/internal/validate"
)

// PracticeArea is an area of law a case belongs to. Natural key: name.
type PracticeArea struct {
	ID          string
	Name        string
	Description string
}

func (p PracticeArea) Table() string { return TablePracticeAreas }

func (p PracticeArea) NaturalKey() map[string]any { return map[string]any{"name": p.Name} }

func (p PracticeArea) Columns() map[string]any {
	return map[string]any{"name": p.Name, "description": p.Description}
}

func (p PracticeArea) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return validate.Fail("name", p.Name, "practice area name")
	}
	return nil
}

// LawFirm is the firm that owns the seeded cases. Natural key: name.
type LawFirm struct {
	ID      string
	Name    string
	Address string
	City    string
	State   string
	ZipCode string
	Phone   string
	Email   string
	Website string
}

func (f LawFirm) Table() string { return TableLawFirms }

func (f LawFirm) NaturalKey() map[string]any { return map[string]any{"name": f.Name} }

func (f LawFirm) Columns() map[string]any {
	return map[string]any{
		"name":         f.Name,
		"address":      f.Address,
		"city":         f.City,
		"state":        f.State,
		"zip_code":     f.ZipCode,
		"phone_number": f.Phone,
		"email":        f.Email,
		"website":      f.Website,
	}
}

func (f LawFirm) Validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return validate.Fail("name", f.Name, "firm name")
	case f.Email != "" && !validate.Email(f.Email):
		return validate.Fail("email", f.Email, "email address")
	case f.Phone != "" && !validate.Phone(f.Phone):
		return validate.Fail("phone_number", f.Phone, "phone number")
	case f.ZipCode != "" && !validate.ZipCode(f.ZipCode):
		return validate.Fail("zip_code", f.ZipCode, "zip code")
	}
	return nil
}

// User is a lawyer, paralegal, client or admin. Natural key: email.
// PasswordHash must hold a bcrypt hash, never a plaintext password.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	Phone        string
	ChatHandle   string
	PasswordHash string
	AvatarURL    string
}

func (u User) Table() string { return TableUsers }

func (u User) NaturalKey() map[string]any { return map[string]any{"email": u.Email} }

func (u User) Columns() map[string]any {
	return map[string]any{
		"email":         u.Email,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"role":          string(u.Role),
		"phone_number":  nullable(u.Phone),
		"slack_id":      nullable(u.ChatHandle),
		"password_hash": u.PasswordHash,
		"avatar_url":    nullable(u.AvatarURL),
	}
}

func (u User) Validate() error {
	switch {
	case !validate.Email(u.Email):
		return validate.Fail("email", u.Email, "email address")
	case !validate.UserRole(string(u.Role)):
		return validate.Fail("role", string(u.Role), "user role")
	case u.Phone != "" && !validate.Phone(u.Phone):
		return validate.Fail("phone_number", u.Phone, "phone number")
	}
	if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
		return validate.Fail("password_hash", "<redacted>", "bcrypt hash")
	}
	return nil
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Case is a legal matter. Natural key: case_number.
type Case struct {
	ID                      string
	Title                   string
	Description             string
	Status                  CaseStatus
	PracticeAreaID          string
	FirmID                  string
	AssignedTo              string
	CreatedBy               string
	CaseNumber              string
	Priority                Priority
	OpenDate                string
	EstimatedCompletionDate string
	BillingRate             float64
}

func (c Case) Table() string { return TableCases }

func (c Case) NaturalKey() map[string]any { return map[string]any{"case_number": c.CaseNumber} }

func (c Case) Columns() map[string]any {
	return map[string]any{
		"title":                     c.Title,
		"description":               c.Description,
		"status":                    string(c.Status),
		"practice_area_id":          c.PracticeAreaID,
		"firm_id":                   c.FirmID,
		"assigned_to":               c.AssignedTo,
		"created_by":                nullable(c.CreatedBy),
		"case_number":               c.CaseNumber,
		"priority":                  string(c.Priority),
		"open_date":                 nullable(c.OpenDate),
		"estimated_completion_date": nullable(c.EstimatedCompletionDate),
		"billing_rate":              c.BillingRate,
	}
}

func (c Case) Validate() error {
	switch {
	case strings.TrimSpace(c.Title) == "":
		return validate.Fail("title", c.Title, "case title")
	case strings.TrimSpace(c.CaseNumber) == "":
		return validate.Fail("case_number", c.CaseNumber, "case number")
	case !validate.CaseStatus(string(c.Status)):
		return validate.Fail("status", string(c.Status), "case status")
	case !validate.PriorityLevel(string(c.Priority)):
		return validate.Fail("priority", string(c.Priority), "priority level")
	case c.PracticeAreaID == "":
		return validate.Fail("practice_area_id", "", "practice area reference")
	case c.FirmID == "":
		return validate.Fail("firm_id", "", "law firm reference")
	case c.AssignedTo == "":
		return validate.Fail("assigned_to", "", "user reference")
	case c.OpenDate != "" && !validate.Date(c.OpenDate):
		return validate.Fail("open_date", c.OpenDate, "date")
	case c.EstimatedCompletionDate != "" && !validate.Date(c.EstimatedCompletionDate):
		return validate.Fail("estimated_completion_date", c.EstimatedCompletionDate, "date")
	case !validate.Money(c.BillingRate):
		return validate.Fail("billing_rate", formatFloat(c.BillingRate), "amount")
	}
	return nil
}

// CaseParticipant links a user to a case. Natural key: (case_id, user_id).
type CaseParticipant struct {
	ID     string
	CaseID string
	UserID string
	Role   Role
}

func (p CaseParticipant) Table() string { return TableCaseParticipants }

func (p CaseParticipant) NaturalKey() map[string]any {
	return map[string]any{"case_id": p.CaseID, "user_id": p.UserID}
}

func (p CaseParticipant) Columns() map[string]any {
	return map[string]any{"case_id": p.CaseID, "user_id": p.UserID, "role": string(p.Role)}
}

func (p CaseParticipant) Validate() error {
	switch {
	case p.CaseID == "":
		return validate.Fail("case_id", "", "case reference")
	case p.UserID == "":
		return validate.Fail("user_id", "", "user reference")
	case !validate.UserRole(string(p.Role)):
		return validate.Fail("role", string(p.Role), "user role")
	}
	return nil
}

// Message is an append-only case message between two distinct users.
type Message struct {
	ID          string
	CaseID      string
	SenderID    string
	RecipientID string
	Type        MessageType
	Content     string
	Read        bool
}

func (m Message) Table() string { return TableMessages }

func (m Message) Columns() map[string]any {
	return map[string]any{
		"case_id":      m.CaseID,
		"sender_id":    m.SenderID,
		"recipient_id": m.RecipientID,
		"message_type": string(m.Type),
		"content":      m.Content,
		"read":         m.Read,
	}
}

func (m Message) Validate() error {
	switch {
	case m.CaseID == "":
		return validate.Fail("case_id", "", "case reference")
	case m.SenderID == "" || m.RecipientID == "":
		return validate.Fail("sender_id", m.SenderID, "user reference")
	case m.SenderID == m.RecipientID:
		return validate.Fail("recipient_id", m.RecipientID, "recipient distinct from sender")
	case !validate.MessageType(string(m.Type)):
		return validate.Fail("message_type", string(m.Type), "message type")
	case strings.TrimSpace(m.Content) == "":
		return validate.Fail("content", m.Content, "message body")
	}
	return nil
}

// Analysis is the text-analytics overlay attached to a note. The zero value
// means no enrichment was available.
type Analysis struct {
	Sentiment        string             `json:"sentiment,omitempty"`
	ConfidenceScores map[string]float64 `json:"confidenceScores,omitempty"`
	KeyPhrases       []string           `json:"keyPhrases,omitempty"`
	Entities         []TextEntity       `json:"entities,omitempty"`
}

// TextEntity is a named entity recognised in note content.
type TextEntity struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// IsEmpty reports whether the analysis carries no data.
func (a Analysis) IsEmpty() bool {
	return a.Sentiment == "" && len(a.ConfidenceScores) == 0 && len(a.KeyPhrases) == 0 && len(a.Entities) == 0
}

// Note is an append-only case note, optionally enriched.
type Note struct {
	ID       string
	CaseID   string
	AuthorID string
	Content  string
	Analysis Analysis
	Private  bool
}

func (n Note) Table() string { return TableNotes }

func (n Note) Columns() map[string]any {
	return map[string]any{
		"case_id":           n.CaseID,
		"user_id":           n.AuthorID,
		"content":           n.Content,
		"sentiment":         nullable(n.Analysis.Sentiment),
		"confidence_scores": jsonOrNull(n.Analysis.ConfidenceScores, len(n.Analysis.ConfidenceScores) == 0),
		"key_phrases":       jsonOrNull(n.Analysis.KeyPhrases, len(n.Analysis.KeyPhrases) == 0),
		"entities":          jsonOrNull(n.Analysis.Entities, len(n.Analysis.Entities) == 0),
		"is_private":        n.Private,
	}
}

func (n Note) Validate() error {
	switch {
	case n.CaseID == "":
		return validate.Fail("case_id", "", "case reference")
	case n.AuthorID == "":
		return validate.Fail("user_id", "", "user reference")
	case strings.TrimSpace(n.Content) == "":
		return validate.Fail("content", n.Content, "note body")
	}
	return nil
}

// External calendar id columns on calendar_events.
const (
	ColumnOutlookID = "outlook_id"
	ColumnGoogleID  = "google_calendar_id"
	ColumnZoomID    = "zoom_id"
)

// CalendarEvent is an append-only case event. External provider ids are
// attached after creation.
type CalendarEvent struct {
	ID          string
	CaseID      string
	OrganizerID string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
	Type        EventType
	Virtual     bool
}

func (e CalendarEvent) Table() string { return TableCalendarEvents }

func (e CalendarEvent) Columns() map[string]any {
	return map[string]any{
		"case_id":     e.CaseID,
		"user_id":     e.OrganizerID,
		"title":       e.Title,
		"description": e.Description,
		"start_time":  Timestamp(e.Start),
		"end_time":    Timestamp(e.End),
		"location":    nullable(e.Location),
		"type":        string(e.Type),
		"is_virtual":  e.Virtual,
	}
}

func (e CalendarEvent) Validate() error {
	switch {
	case e.CaseID == "":
		return validate.Fail("case_id", "", "case reference")
	case e.OrganizerID == "":
		return validate.Fail("user_id", "", "user reference")
	case strings.TrimSpace(e.Title) == "":
		return validate.Fail("title", e.Title, "event title")
	case !validate.EventType(string(e.Type)):
		return validate.Fail("type", string(e.Type), "event type")
	case !e.End.After(e.Start):
		return validate.Fail("end_time", Timestamp(e.End), "end time after start time")
	}
	return nil
}

// Duration is the event length.
func (e CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func jsonOrNull(v any, empty bool) any {
	if empty {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
