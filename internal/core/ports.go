package core

import (
	"context"
)

// Mailbox gives access to the mail host and the message currently open in it
type Mailbox interface {
	// Ready reports whether the host is available to display notices
	Ready(ctx context.Context) bool

	// UserProfile returns the identity of the current user
	UserProfile() UserInfo

	// CurrentItem returns the open message
	CurrentItem(ctx context.Context) (MessageItem, error)
}

// MessageItem is the message the user is reporting
type MessageItem interface {
	// Metadata returns the fields available without a round trip to the host
	Metadata() ItemMetadata

	// BodyType determines the content type of the body
	BodyType(ctx context.Context) (BodyType, error)

	// Body retrieves the body content in the given content type
	Body(ctx context.Context, bodyType BodyType) (string, error)

	// Headers retrieves the raw internet header block
	Headers(ctx context.Context) (string, error)

	// SetRead updates the read flag
	SetRead(ctx context.Context, read bool) error

	// AddCategory appends a label to the category set
	AddCategory(ctx context.Context, category string) error
}

// Composer opens a reply carrying the report
type Composer interface {
	Reply(ctx context.Context, draft ReplyDraft) (ReplyResult, error)
}

// Notifier displays notices to the user
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}
