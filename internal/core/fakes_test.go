package core

import (
	"context"
	"errors"
	"sync"
)

type fakeItem struct {
	meta        ItemMetadata
	bodyType    BodyType
	body        string
	headers     string
	bodyTypeErr error
	bodyErr     error
	headersErr  error
	setReadErr  error
	categoryErr error
	block       bool

	mu         sync.Mutex
	read       bool
	categories []string
	calls      []string
}

func (f *fakeItem) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeItem) Metadata() ItemMetadata { return f.meta }

func (f *fakeItem) BodyType(ctx context.Context) (BodyType, error) {
	f.record("bodyType")
	if f.block {
		<-make(chan struct{})
	}
	if f.bodyTypeErr != nil {
		return "", f.bodyTypeErr
	}
	return f.bodyType, nil
}

func (f *fakeItem) Body(ctx context.Context, bodyType BodyType) (string, error) {
	f.record("body:" + string(bodyType))
	if f.bodyErr != nil {
		return "", f.bodyErr
	}
	return f.body, nil
}

func (f *fakeItem) Headers(ctx context.Context) (string, error) {
	f.record("headers")
	if f.headersErr != nil {
		return "", f.headersErr
	}
	return f.headers, nil
}

func (f *fakeItem) SetRead(ctx context.Context, read bool) error {
	f.record("setRead")
	if f.setReadErr != nil {
		return f.setReadErr
	}
	f.mu.Lock()
	f.read = read
	f.mu.Unlock()
	return nil
}

func (f *fakeItem) AddCategory(ctx context.Context, category string) error {
	f.record("addCategory")
	if f.categoryErr != nil {
		return f.categoryErr
	}
	f.mu.Lock()
	f.categories = append(f.categories, category)
	f.mu.Unlock()
	return nil
}

type fakeMailbox struct {
	item    *fakeItem
	itemErr error
	ready   bool
	user    UserInfo
}

func (m *fakeMailbox) Ready(ctx context.Context) bool { return m.ready }

func (m *fakeMailbox) UserProfile() UserInfo { return m.user }

func (m *fakeMailbox) CurrentItem(ctx context.Context) (MessageItem, error) {
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	return m.item, nil
}

type fakeComposer struct {
	result ReplyResult
	err    error

	mu     sync.Mutex
	drafts []ReplyDraft
}

func (c *fakeComposer) Reply(ctx context.Context, draft ReplyDraft) (ReplyResult, error) {
	c.mu.Lock()
	c.drafts = append(c.drafts, draft)
	c.mu.Unlock()
	if c.err != nil {
		return ReplyResult{}, c.err
	}
	return c.result, nil
}

type fakeNotifier struct {
	err error

	mu      sync.Mutex
	notices []Notice
}

func (n *fakeNotifier) Notify(ctx context.Context, notice Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *fakeNotifier) byKey(key string) []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Notice
	for _, notice := range n.notices {
		if notice.Key == key {
			out = append(out, notice)
		}
	}
	return out
}

var errHost = errors.New("host failure")

func newFakeItem() *fakeItem {
	return &fakeItem{
		meta: ItemMetadata{
			MessageID:       "<abc@example.com>",
			Subject:         "Invoice overdue",
			From:            Recipient{Name: "Billing", Address: "billing@evil.example"},
			To:              []Recipient{{Address: "jane@company.com"}},
			AttachmentCount: 1,
		},
		bodyType: BodyTypeHTML,
		body:     `<p>Pay at <a href="http://evil.example/pay">here</a></p>`,
		headers:  "Received: from mx\r\nX-SENTINEL-AJSMN: 1\r\n",
	}
}
