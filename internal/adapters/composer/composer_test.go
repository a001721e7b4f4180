package composer

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"math/big"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/sentinel-report/internal/core"
)

func testDraft() core.ReplyDraft {
	return core.ReplyDraft{
		To:        core.Recipient{Name: "Security Team", Address: "infosec@company.com"},
		Subject:   "[SENTINEL-PHISHING] Invoice overdue",
		HTMLBody:  "<html><body><h2>Phishing Report</h2></body></html>",
		InReplyTo: "<abc123@evil.example>",
		From:      core.UserInfo{DisplayName: "Jane", Email: "jane@company.com"},
	}
}

func TestDraftComposer_WritesMessage(t *testing.T) {
	dir := t.TempDir()
	c := NewDraftComposer(dir, zaptest.NewLogger(t))

	result, err := c.Reply(context.Background(), testDraft())
	if err != nil {
		t.Fatal(err)
	}
	if result.Delivered {
		t.Fatal("draft must not be reported as delivered")
	}
	if !strings.HasPrefix(result.Location, dir) || !strings.HasSuffix(result.Location, "-report.eml") {
		t.Fatalf("Location = %q", result.Location)
	}

	raw, err := os.ReadFile(result.Location)
	if err != nil {
		t.Fatal(err)
	}
	mr, err := gomail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}

	subject, _ := mr.Header.Subject()
	if subject != "[SENTINEL-PHISHING] Invoice overdue" {
		t.Errorf("Subject = %q", subject)
	}
	to, _ := mr.Header.AddressList("To")
	if len(to) != 1 || to[0].Address != "infosec@company.com" {
		t.Errorf("To = %v", to)
	}
	if got := mr.Header.Get("In-Reply-To"); got != "<abc123@evil.example>" {
		t.Errorf("In-Reply-To = %q", got)
	}

	part, err := mr.NextPart()
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(part.Body)
	if !strings.Contains(string(body), "<h2>Phishing Report</h2>") {
		t.Errorf("body = %q", body)
	}
}

func TestDraftComposer_RequiresRecipient(t *testing.T) {
	c := NewDraftComposer(t.TempDir(), zaptest.NewLogger(t))
	draft := testDraft()
	draft.To = core.Recipient{}

	if _, err := c.Reply(context.Background(), draft); err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestUnsupportedComposer(t *testing.T) {
	_, err := NewUnsupportedComposer().Reply(context.Background(), testDraft())
	if !errors.Is(err, core.ErrReplyUnsupported) {
		t.Fatalf("expected ErrReplyUnsupported, got %v", err)
	}
}

type recordingBackend struct {
	mu       sync.Mutex
	from     string
	to       []string
	data     []byte
	tls      bool
	hostname string
	username string
	password string
}

func (b *recordingBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	_, isTLS := c.TLSConnectionState()
	b.mu.Lock()
	b.tls = isTLS
	b.hostname = c.Hostname()
	b.mu.Unlock()
	return &recordingSession{backend: b}, nil
}

type recordingSession struct {
	backend *recordingBackend
}

func (s *recordingSession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *recordingSession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != "reporter" || password != "s3cret" {
			return errors.New("invalid credentials")
		}
		s.backend.mu.Lock()
		defer s.backend.mu.Unlock()
		s.backend.username = username
		s.backend.password = password
		return nil
	}), nil
}

func (s *recordingSession) Reset() {}

func (s *recordingSession) Logout() error { return nil }

func (s *recordingSession) Mail(from string, _ *smtp.MailOptions) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.from = from
	return nil
}

func (s *recordingSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.to = append(s.backend.to, to)
	return nil
}

func (s *recordingSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.data = data
	return nil
}

// startSMTPServer runs a go-smtp server on a loopback port. A non-nil
// tlsConfig enables STARTTLS.
func startSMTPServer(t *testing.T, backend *recordingBackend, tlsConfig *tls.Config) string {
	t.Helper()
	server := smtp.NewServer(backend)
	server.Domain = "localhost"
	server.TLSConfig = tlsConfig

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go server.Serve(l)
	t.Cleanup(func() { server.Close() })
	return l.Addr().String()
}

// selfSignedTLS returns a server config for 127.0.0.1 and a client config trusting it
func selfSignedTLS(t *testing.T) (server, client *tls.Config) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}

	pool := x509.NewCertPool()
	pool.AddCert(cert)
	server = &tls.Config{Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}}}
	client = &tls.Config{RootCAs: pool, ServerName: "127.0.0.1"}
	return server, client
}

func TestSMTPComposer_StartTLSAndAuth(t *testing.T) {
	backend := &recordingBackend{}
	serverTLS, clientTLS := selfSignedTLS(t)
	addr := startSMTPServer(t, backend, serverTLS)

	c := NewSMTPComposer(addr, "reporter", "s3cret", "reports@company.com", "test.local", true, zaptest.NewLogger(t))
	c.tlsConfig = clientTLS

	result, err := c.Reply(context.Background(), testDraft())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Delivered {
		t.Fatal("expected delivered result")
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if !backend.tls {
		t.Error("session was not upgraded to TLS")
	}
	if backend.hostname != "test.local" {
		t.Errorf("EHLO name after upgrade = %q", backend.hostname)
	}
	if backend.username != "reporter" || backend.password != "s3cret" {
		t.Errorf("PLAIN credentials = %q/%q", backend.username, backend.password)
	}
	if backend.from != "reports@company.com" {
		t.Errorf("MAIL FROM = %q", backend.from)
	}
}

func TestSMTPComposer_StartTLSUnsupported(t *testing.T) {
	backend := &recordingBackend{}
	addr := startSMTPServer(t, backend, nil)

	c := NewSMTPComposer(addr, "", "", "", "test.local", true, zaptest.NewLogger(t))
	if _, err := c.Reply(context.Background(), testDraft()); err == nil {
		t.Fatal("expected error when the server does not offer STARTTLS")
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.data != nil {
		t.Error("report must not be sent in clear text when STARTTLS is required")
	}
}

func TestSMTPComposer_Sends(t *testing.T) {
	backend := &recordingBackend{}
	addr := startSMTPServer(t, backend, nil)

	c := NewSMTPComposer(addr, "", "", "", "test.local", false, zaptest.NewLogger(t))
	result, err := c.Reply(context.Background(), testDraft())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Delivered {
		t.Fatal("expected delivered result")
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.from != "jane@company.com" {
		t.Errorf("MAIL FROM = %q", backend.from)
	}
	if len(backend.to) != 1 || backend.to[0] != "infosec@company.com" {
		t.Errorf("RCPT TO = %v", backend.to)
	}
	if !bytes.Contains(backend.data, []byte("Subject: [SENTINEL-PHISHING] Invoice overdue")) {
		t.Errorf("data = %q", backend.data)
	}
}

func TestSMTPComposer_NoSender(t *testing.T) {
	c := NewSMTPComposer("127.0.0.1:1", "", "", "", "", false, zaptest.NewLogger(t))
	draft := testDraft()
	draft.From = core.UserInfo{}

	if _, err := c.Reply(context.Background(), draft); err == nil {
		t.Fatal("expected error without sender address")
	}
}
