package event

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "offset", in: "2024-01-02T03:04:05+08:00", want: "2024-01-02 03:04:05+0800"},
		{name: "utc", in: "2024-01-01T00:00:00+00:00", want: "2024-01-01 00:00:00+0000"},
		{name: "zulu", in: "2024-01-01T00:00:00Z", want: "2024-01-01 00:00:00+0000"},
		{name: "naive", in: "2024-01-02T03:04:05", want: "2024-01-02 03:04:05"},
		{name: "garbage passes through", in: "not-a-date", want: "not-a-date"},
		{name: "empty", in: "", want: "-"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatTimestamp(tt.in); got != tt.want {
				t.Fatalf("FormatTimestamp(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLabelUnknownTypeKeepsRawString(t *testing.T) {
	t.Parallel()
	if got := Label("StreamStarted"); got != "直播开始" {
		t.Fatalf("Label(StreamStarted) = %q", got)
	}
	got := Label("SomethingNew")
	if !strings.Contains(got, "SomethingNew") {
		t.Fatalf("unknown label %q does not embed the raw type", got)
	}
	if !strings.Contains(got, "未知事件") {
		t.Fatalf("unknown label %q missing generic marker", got)
	}
}

func TestRenderStreamStarted(t *testing.T) {
	t.Parallel()
	ev := &Event{
		EventID:        "abc",
		EventType:      TypeStreamStarted,
		EventTimestamp: "2024-01-01T00:00:00+00:00",
		EventData: map[string]any{
			"RoomId":    json.Number("123"),
			"Name":      "X",
			"Title":     "Y",
			"Recording": false,
			"Streaming": true,
		},
	}

	want := strings.Join([]string{
		"📡 直播事件提醒: 直播开始",
		"时间: 2024-01-01 00:00:00+0000",
		"主播: X",
		"标题: Y",
		"录制中: false",
		"直播中: true",
	}, "\n")

	if got := Render(ev); got != want {
		t.Fatalf("Render mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderFileLines(t *testing.T) {
	t.Parallel()
	data := map[string]any{
		"RelativePath": "rec/123.flv",
		"Duration":     json.Number("3600"),
		"FileSize":     json.Number("1073741824"),
	}

	opened := Render(&Event{EventType: TypeFileOpening, EventData: data})
	if !strings.Contains(opened, "文件: rec/123.flv") {
		t.Fatalf("FileOpening misses file line:\n%s", opened)
	}
	if strings.Contains(opened, "时长") || strings.Contains(opened, "大小") {
		t.Fatalf("FileOpening must not carry duration/size lines:\n%s", opened)
	}

	closed := Render(&Event{EventType: TypeFileClosed, EventData: data})
	for _, want := range []string{"文件: rec/123.flv", "时长: 3600 秒", "大小: 1073741824 字节"} {
		if !strings.Contains(closed, want) {
			t.Fatalf("FileClosed misses %q:\n%s", want, closed)
		}
	}

	stream := Render(&Event{EventType: TypeStreamEnded, EventData: data})
	if strings.Contains(stream, "文件") {
		t.Fatalf("non-file event must not carry a file line:\n%s", stream)
	}
}

// Render must stay total: an event carrying nothing but id and type still
// produces a full message with placeholders.
func TestRenderTotalOnSparseEvent(t *testing.T) {
	t.Parallel()
	got := Render(&Event{EventID: "abc", EventType: TypeSessionEnded})
	if got == "" {
		t.Fatal("empty render output")
	}
	if strings.Count(got, "-") < 5 {
		t.Fatalf("expected placeholders for missing fields:\n%s", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Fatal("trailing newline in render output")
	}
}
