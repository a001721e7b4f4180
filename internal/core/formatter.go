package core

import (
	"fmt"
	"regexp"
	"strings"
)

// reportTimeLayout matches the millisecond ISO-8601 form used in report banners
const reportTimeLayout = "2006-01-02T15:04:05.000Z07:00"

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s\x0B\p{Z}\x{FEFF}<>]+`)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces & < > " ' with their entities in a single pass.
// It is not idempotent: "&amp;" becomes "&amp;amp;".
func EscapeHTML(text string) string {
	if text == "" {
		return ""
	}
	return htmlEscaper.Replace(text)
}

// ExtractURLs returns the http and https URLs in text, deduplicated in the
// order they first appear
func ExtractURLs(text string) []string {
	if text == "" {
		return nil
	}

	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		urls = append(urls, m)
	}
	return urls
}

// Defang replaces the first colon of a URL with "[:]" so it cannot be followed
func Defang(url string) string {
	return strings.Replace(url, ":", "[:]", 1)
}

// FormatReport renders the report body for a snapshot. The raw message body is
// embedded verbatim; every other message field is escaped.
func FormatReport(snap MessageSnapshot, reportType ReportType, footer string) ReportDocument {
	var b strings.Builder

	b.WriteString(`<html><body><font face="Calibri" size="3">`)

	fmt.Fprintf(&b, "<p><strong>Report Type:</strong> %s</p>", EscapeHTML(string(reportType)))
	fmt.Fprintf(&b, "<p><strong>Report Time:</strong> %s</p>", snap.Timestamp.UTC().Format(reportTimeLayout))
	fmt.Fprintf(&b, "<p><strong>Reported by:</strong> %s (%s)</p>",
		EscapeHTML(snap.User.DisplayName), EscapeHTML(snap.User.Email))

	b.WriteString("<hr>")
	b.WriteString("<h3>Email Information</h3>")
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", EscapeHTML(snap.Subject))
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s</p>", EscapeHTML(orDefault(snap.From, "Unknown")))
	fmt.Fprintf(&b, "<p><strong>To:</strong> %s</p>", EscapeHTML(orDefault(joinAddresses(snap.To), "Unknown")))
	if cc := joinAddresses(snap.CC); cc != "" {
		fmt.Fprintf(&b, "<p><strong>CC:</strong> %s</p>", EscapeHTML(cc))
	}
	fmt.Fprintf(&b, "<p><strong>Attachments:</strong> %d</p>", snap.AttachmentCount)

	if urls := ExtractURLs(snap.Body); len(urls) > 0 {
		b.WriteString("<hr>")
		fmt.Fprintf(&b, "<h3>URLs Found (%d)</h3>", len(urls))
		b.WriteString("<ul>")
		for _, u := range urls {
			fmt.Fprintf(&b, "<li>%s</li>", EscapeHTML(Defang(u)))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("<hr>")
	b.WriteString("<h3>Email Headers</h3>")
	b.WriteString(`<pre style="font-size: 11px; background-color: #f0f0f0; padding: 10px;">`)
	b.WriteString(EscapeHTML(orDefault(snap.Headers, "Headers not available")))
	b.WriteString("</pre>")

	b.WriteString("<hr>")
	b.WriteString("<h3>Original Email Body</h3>")
	b.WriteString(`<div style="border: 1px solid #ccc; padding: 10px; margin-top: 10px;">`)
	b.WriteString(orDefault(snap.Body, "Body not available"))
	b.WriteString("</div>")

	b.WriteString("<hr>")
	b.WriteString(`<p style="font-size: 10px; color: #666;">`)
	b.WriteString(EscapeHTML(footer))
	b.WriteString("</p>")

	b.WriteString("</font></body></html>")

	return ReportDocument(b.String())
}

func joinAddresses(recipients []Recipient) string {
	addrs := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r.Address != "" {
			addrs = append(addrs, r.Address)
		}
	}
	return strings.Join(addrs, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
