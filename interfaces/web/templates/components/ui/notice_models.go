package ui

// NoticeKind selects the notice styling.
type NoticeKind string

const (
	NoticeError NoticeKind = "error"
	NoticeInfo  NoticeKind = "info"
)

// NoticeView is a boxed message with an optional list of details.
type NoticeView struct {
	Kind    NoticeKind
	Title   string
	Details []string
}

func (v NoticeView) kind() string {
	if v.Kind == "" {
		return string(NoticeInfo)
	}
	return string(v.Kind)
}

// Errors are announced immediately, everything else politely.
func (v NoticeView) role() string {
	if v.Kind == NoticeError {
		return "alert"
	}
	return "status"
}
