package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

func TestFormatRun(t *testing.T) {
	run := sampleRun()
	run.Records = append(run.Records, domain.ResultRecord{
		Title:  "Fraud <script> & co",
		URL:    "https://example.com/a?x=1&y=2",
		Source: "example.com",
		Score:  1.6,
	})

	result := FormatRun(run, 10)

	if !strings.Contains(result, "Найдено записей: 2") {
		t.Error("FormatRun() should contain record count")
	}
	if !strings.Contains(result, "NHS trust hit by ransomware") {
		t.Error("FormatRun() should contain titles")
	}
	if !strings.Contains(result, "score 3.20") {
		t.Error("FormatRun() should contain score")
	}
	if !strings.Contains(result, "uk, united kingdom") {
		t.Error("FormatRun() should contain country hits")
	}
	if strings.Contains(result, "<script>") {
		t.Error("FormatRun() should escape titles")
	}
	if !strings.Contains(result, `href="https://example.com/a?x=1&amp;y=2"`) {
		t.Error("FormatRun() should escape URLs")
	}
	if !strings.Contains(result, run.ID) {
		t.Error("FormatRun() should mention run id")
	}
}

func TestFormatRun_Limit(t *testing.T) {
	run := &domain.CrawlRun{}
	for i := 0; i < 5; i++ {
		run.Records = append(run.Records, domain.ResultRecord{Title: "t", URL: "https://e.com", Source: "e.com"})
	}

	result := FormatRun(run, 2)

	if !strings.Contains(result, "показаны первые 2") {
		t.Error("FormatRun() should say records were cut")
	}
	if strings.Contains(result, "3. ") {
		t.Error("FormatRun() should render only two records")
	}
}

func TestFormatStarted(t *testing.T) {
	got := FormatStarted(CrawlRequest{Topic: "a<b", Year: "2024", Country: "any"}, domain.QuickStrategy())
	if !strings.Contains(got, "a&lt;b") {
		t.Errorf("FormatStarted() should escape topic: %q", got)
	}
	if !strings.Contains(got, "год 2024") {
		t.Errorf("FormatStarted() should mention year: %q", got)
	}
	if !strings.Contains(got, "Быстрый обход") {
		t.Errorf("FormatStarted() should mention strategy: %q", got)
	}

	got = FormatStarted(CrawlRequest{Topic: "x", Year: "any", Country: "worldwide"}, domain.StandardStrategy())
	if strings.Contains(got, "год") || strings.Contains(got, "страна") {
		t.Errorf("FormatStarted() should skip defaults: %q", got)
	}
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   int // number of parts
	}{
		{"short message", "Hello", 100, 1},
		{"exact length", "Hello", 5, 1},
		{"split needed", "Hello World Test", 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitMessage(tt.text, tt.maxLen)
			if len(got) != tt.want {
				t.Errorf("SplitMessage() parts = %v, want %v", len(got), tt.want)
			}
			if strings.Join(got, "") != tt.text {
				t.Errorf("SplitMessage() lost text: %q", got)
			}
		})
	}
}

func TestSplitMessage_HTMLTags(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "link tag",
			text: `Text before <a href="https://example.com/very/long/url">link text</a> text after`,
		},
		{
			name: "bold tag",
			text: `Some text <b>bold text here</b> more text`,
		},
		{
			name: "multiple tags",
			text: `<b>Title</b>\n<a href="https://example.com">Link</a>\nMore text here`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := SplitMessage(tt.text, 30)

			for i, part := range parts {
				openCount := strings.Count(part, "<")
				closeCount := strings.Count(part, ">")

				if openCount != closeCount {
					t.Errorf("Part %d has unbalanced tags (open=%d, close=%d): %q",
						i, openCount, closeCount, part)
				}
			}
		})
	}
}

func TestSplitMessage_Multibyte(t *testing.T) {
	text := strings.Repeat("ж", 50)

	parts := SplitMessage(text, 15)

	for i, part := range parts {
		if !utf8.ValidString(part) {
			t.Errorf("part %d is not valid utf-8: %q", i, part)
		}
	}
	if strings.Join(parts, "") != text {
		t.Error("SplitMessage() lost text")
	}
}

func TestIsInsideHTMLTag(t *testing.T) {
	tests := []struct {
		text string
		pos  int
		want bool
	}{
		{`<a href="url">text</a>`, 5, true},   // inside <a href="...">
		{`<a href="url">text</a>`, 15, false}, // in "text"
		{`text <b>bold</b>`, 0, false},        // before any tag
		{`text <b>bold</b>`, 6, true},         // inside <b>
		{`text <b>bold</b>`, 9, false},        // in "bold"
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := isInsideHTMLTag(tt.text, tt.pos)
			if got != tt.want {
				t.Errorf("isInsideHTMLTag(%q, %d) = %v, want %v", tt.text, tt.pos, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s     string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer title", 5, "a lo…"},
		{"привет мир", 4, "при…"},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if got := truncate(tt.s, tt.limit); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.limit, got, tt.want)
			}
		})
	}
}
