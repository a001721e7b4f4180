package utils

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))

	if got := tp.SanitizeUTF8("plain"); got != "plain" {
		t.Errorf("SanitizeUTF8() = %q", got)
	}
	if got := tp.SanitizeUTF8("a\xffb"); got != "a�b" {
		t.Errorf("SanitizeUTF8() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))

	if got := tp.Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := tp.Truncate("héllo", 2); got != "h…" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := tp.Truncate("anything", 0); got != "anything" {
		t.Errorf("Truncate() = %q", got)
	}
}

func TestHeaderBlock(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))

	crlf := "From: a@b\r\nSubject: x\r\n\r\nbody\r\n\r\nmore"
	if got := tp.HeaderBlock([]byte(crlf)); got != "From: a@b\r\nSubject: x\r\n" {
		t.Errorf("HeaderBlock(crlf) = %q", got)
	}

	lf := "From: a@b\nSubject: x\n\nbody"
	if got := tp.HeaderBlock([]byte(lf)); got != "From: a@b\nSubject: x\n" {
		t.Errorf("HeaderBlock(lf) = %q", got)
	}

	if got := tp.HeaderBlock([]byte("From: a@b\r\n")); got != "From: a@b\r\n" {
		t.Errorf("HeaderBlock(no body) = %q", got)
	}
}
