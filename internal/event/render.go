package event

import (
	"strings"
	"time"
)

// typeLabels maps monitor event types to display labels.
// Unknown types fall through to Label's generic form; absence is not an error.
var typeLabels = map[string]string{
	TypeSessionStarted: "录制开始",
	TypeFileOpening:    "文件打开",
	TypeFileClosed:     "文件关闭",
	TypeSessionEnded:   "录制结束",
	TypeStreamStarted:  "直播开始",
	TypeStreamEnded:    "直播结束",
}

// Label resolves the display label for an event type.
func Label(eventType string) string {
	if l, ok := typeLabels[eventType]; ok {
		return l
	}
	return "未知事件(" + eventType + ")"
}

// Render builds the notification text for an event: newline-joined lines in a
// fixed order, no trailing newline. Missing fields degrade to "-".
func Render(e *Event) string {
	lines := []string{
		"📡 直播事件提醒: " + Label(e.EventType),
		"时间: " + FormatTimestamp(e.EventTimestamp),
		"主播: " + e.Field("Name"),
		"标题: " + e.Field("Title"),
		"录制中: " + e.Field("Recording"),
		"直播中: " + e.Field("Streaming"),
	}

	switch e.EventType {
	case TypeFileOpening, TypeFileClosed:
		lines = append(lines, "文件: "+e.Field("RelativePath"))
	}
	if e.EventType == TypeFileClosed {
		lines = append(lines,
			"时长: "+e.Field("Duration")+" 秒",
			"大小: "+e.Field("FileSize")+" 字节",
		)
	}

	return strings.Join(lines, "\n")
}

// tsLayouts are the ISO-8601 shapes the monitor is known to send.
// hasZone controls whether the rendered form carries a ±HHMM suffix; inputs
// without an offset render without one, like the upstream monitor's own logs.
var tsLayouts = []struct {
	layout  string
	hasZone bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02 15:04:05", false},
}

// FormatTimestamp renders an event timestamp as "2006-01-02 15:04:05±HHMM".
// Unparseable input passes through unchanged; empty input renders "-".
func FormatTimestamp(raw string) string {
	if raw == "" {
		return "-"
	}
	for _, l := range tsLayouts {
		t, err := time.Parse(l.layout, raw)
		if err != nil {
			continue
		}
		if l.hasZone {
			return t.Format("2006-01-02 15:04:05-0700")
		}
		return t.Format("2006-01-02 15:04:05")
	}
	return raw
}
