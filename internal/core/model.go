package core

import (
	"fmt"
	"strings"
	"time"
)

// ReportType selects the report recipient and the post-report actions
type ReportType string

const (
	ReportPhishing   ReportType = "Phishing"
	ReportSpam       ReportType = "Spam"
	ReportLegitimate ReportType = "Legitimate"
)

// ParseReportType parses a report type name, ignoring case
func ParseReportType(s string) (ReportType, error) {
	for _, t := range []ReportType{ReportPhishing, ReportSpam, ReportLegitimate} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported report type: %q", s)
}

// MarksOriginal reports whether the original message is marked after reporting
func (t ReportType) MarksOriginal() bool {
	return t == ReportPhishing || t == ReportSpam
}

// BodyType is the content type of a message body
type BodyType string

const (
	BodyTypeText BodyType = "text"
	BodyTypeHTML BodyType = "html"
)

// Recipient represents a mailbox address with an optional display name
type Recipient struct {
	Name    string
	Address string
}

// UserInfo identifies the user filing the report
type UserInfo struct {
	DisplayName string
	Email       string
	TimeZone    string
}

// ItemMetadata holds the fields of the open message that the host exposes synchronously
type ItemMetadata struct {
	MessageID       string
	Subject         string
	From            Recipient
	To              []Recipient
	CC              []Recipient
	BCC             []Recipient
	AttachmentCount int
	IsRead          bool
	Categories      []string
}

// MessageSnapshot is the state of the open message captured at the start of a run
type MessageSnapshot struct {
	RunID               string
	ReportType          ReportType
	MessageID           string
	Subject             string
	From                string
	Sender              Recipient
	To                  []Recipient
	CC                  []Recipient
	BCC                 []Recipient
	Body                string
	BodyType            BodyType
	AttachmentCount     int
	IsRead              bool
	Categories          []string
	Headers             string
	IsSimulatedPhishing bool
	Timestamp           time.Time
	User                UserInfo
}

// ReportDocument is the rendered HTML report body
type ReportDocument string

// ReplyDraft is the report handed to the host's reply capability
type ReplyDraft struct {
	To        Recipient
	Subject   string
	HTMLBody  ReportDocument
	InReplyTo string
	From      UserInfo
}

// ReplyResult describes what the host did with a reply draft
type ReplyResult struct {
	// Delivered is true when the host sent the report instead of only opening a draft
	Delivered bool
	Location  string
}

// NoticeType is the severity of a user notice
type NoticeType string

const (
	NoticeInformational NoticeType = "Informational"
	NoticeError         NoticeType = "Error"
)

// Notice is a message shown to the user. Notices with the same key replace each other.
type Notice struct {
	Key        string
	Type       NoticeType
	Title      string
	Message    string
	Persistent bool
}

// DeliveryOutcome is the result of one report run
type DeliveryOutcome struct {
	RunID      string
	ReportType ReportType
	Success    bool
	Stage      Stage
	Recipient  string
	Subject    string
	Notice     string
	Delivered  bool
	Err        error
}
