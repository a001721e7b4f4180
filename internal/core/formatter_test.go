package core

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestExtractURLs_OrderAndDedup(t *testing.T) {
	got := ExtractURLs("Visit http://a.com and https://b.com/x?y=1 now, again http://a.com")
	want := []string{"http://a.com", "https://b.com/x?y=1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractURLs() = %v, want %v", got, want)
	}
}

func TestExtractURLs_StopsAtAngleBrackets(t *testing.T) {
	got := ExtractURLs(`<a href="x">HTTPS://Example.com/path</a>`)
	want := []string{"HTTPS://Example.com/path"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractURLs() = %v, want %v", got, want)
	}
}

func TestExtractURLs_Empty(t *testing.T) {
	if got := ExtractURLs(""); len(got) != 0 {
		t.Fatalf("expected no URLs, got %v", got)
	}
	if got := ExtractURLs("nothing to see here ftp://x"); len(got) != 0 {
		t.Fatalf("expected no URLs, got %v", got)
	}
}

func TestDefang(t *testing.T) {
	if got := Defang("http://a.com"); got != "http[:]//a.com" {
		t.Fatalf("Defang() = %q", got)
	}
	if got := Defang("https://a.com:8443/x"); got != "https[:]//a.com:8443/x" {
		t.Fatalf("Defang() = %q", got)
	}
}

func TestEscapeHTML(t *testing.T) {
	once := EscapeHTML(`<script>&"'`)
	if once != "&lt;script&gt;&amp;&quot;&#039;" {
		t.Fatalf("EscapeHTML() = %q", once)
	}

	// A second pass escapes the entities again.
	twice := EscapeHTML(once)
	if twice != "&amp;lt;script&amp;gt;&amp;amp;&amp;quot;&amp;#039;" {
		t.Fatalf("EscapeHTML(EscapeHTML()) = %q", twice)
	}

	if EscapeHTML("") != "" {
		t.Fatal("expected empty output for empty input")
	}
}

func testSnapshot() MessageSnapshot {
	return MessageSnapshot{
		Subject:         `Win <big> & "prizes"`,
		From:            "attacker@evil.example",
		To:              []Recipient{{Address: "a@company.com"}, {Address: "b@company.com"}},
		Body:            `<b>Click</b> http://evil.example/login now`,
		BodyType:        BodyTypeHTML,
		AttachmentCount: 2,
		Headers:         "X-Test: <1>",
		Timestamp:       time.Date(2026, 3, 4, 5, 6, 7, 89_000_000, time.UTC),
		User:            UserInfo{DisplayName: "Jane Doe", Email: "jane@company.com"},
	}
}

func TestFormatReport_Sections(t *testing.T) {
	doc := string(FormatReport(testSnapshot(), ReportPhishing, "footer"))

	for _, want := range []string{
		"<p><strong>Report Type:</strong> Phishing</p>",
		"<p><strong>Report Time:</strong> 2026-03-04T05:06:07.089Z</p>",
		"<p><strong>Reported by:</strong> Jane Doe (jane@company.com)</p>",
		"<p><strong>Subject:</strong> Win &lt;big&gt; &amp; &quot;prizes&quot;</p>",
		"<p><strong>From:</strong> attacker@evil.example</p>",
		"<p><strong>To:</strong> a@company.com, b@company.com</p>",
		"<p><strong>Attachments:</strong> 2</p>",
		"<h3>URLs Found (1)</h3><ul><li>http[:]//evil.example/login</li></ul>",
		"X-Test: &lt;1&gt;</pre>",
		"<b>Click</b> http://evil.example/login now</div>",
		"footer</p></font></body></html>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("report missing %q", want)
		}
	}

	if strings.Contains(doc, "<strong>CC:</strong>") {
		t.Error("CC line should be omitted when there are no CC recipients")
	}
}

func TestFormatReport_Order(t *testing.T) {
	doc := string(FormatReport(testSnapshot(), ReportSpam, "footer"))

	markers := []string{"Report Type:", "Reported by:", "Subject:", "Attachments:", "URLs Found", "Email Headers", "Original Email Body", "footer"}
	last := -1
	for _, m := range markers {
		idx := strings.Index(doc, m)
		if idx < 0 {
			t.Fatalf("missing %q", m)
		}
		if idx < last {
			t.Fatalf("%q appears out of order", m)
		}
		last = idx
	}
}

func TestFormatReport_Fallbacks(t *testing.T) {
	snap := MessageSnapshot{
		CC:        []Recipient{{Address: "boss@company.com"}},
		Timestamp: time.Now(),
	}
	doc := string(FormatReport(snap, ReportLegitimate, "footer"))

	for _, want := range []string{
		"<p><strong>From:</strong> Unknown</p>",
		"<p><strong>To:</strong> Unknown</p>",
		"<p><strong>CC:</strong> boss@company.com</p>",
		"Headers not available</pre>",
		"Body not available</div>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(doc, "URLs Found") {
		t.Error("URL section should be omitted when no URLs are present")
	}
}

func TestFormatReport_DoesNotModifySnapshot(t *testing.T) {
	snap := testSnapshot()
	before := snap
	before.To = append([]Recipient(nil), snap.To...)

	FormatReport(snap, ReportPhishing, "footer")

	if !reflect.DeepEqual(snap, before) {
		t.Fatal("snapshot changed during formatting")
	}
}
