package view

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
)

// Notice is the transient banner shown after an action.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

func success(text string) Notice { return Notice{Kind: NoticeSuccess, Text: text} }
func info(text string) Notice    { return Notice{Kind: NoticeInfo, Text: text} }

func failure(prefix string, err error) Notice {
	return Notice{Kind: NoticeError, Text: prefix + ": " + err.Error()}
}
