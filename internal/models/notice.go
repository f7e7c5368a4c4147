package models

// NoticeField is a single labelled value inside a Notice.
type NoticeField struct {
	Name   string
	Value  string
	Inline bool
}

// Notice is a platform-neutral rich message. The chat client renders it
// as an embed; tests assert on it directly.
type Notice struct {
	Title       string
	Description string
	Color       int
	Fields      []NoticeField
	Footer      string
	Thumbnail   string
}

// AddField appends a field and returns the notice for chaining.
func (n *Notice) AddField(name, value string, inline bool) *Notice {
	n.Fields = append(n.Fields, NoticeField{Name: name, Value: value, Inline: inline})
	return n
}
