package server

// MsgType tags a reply envelope.
type MsgType string

// Reply tags.
const (
	MsgNormal  MsgType = "NORMAL"
	MsgWarning MsgType = "WARNING"
	MsgError   MsgType = "ERROR"
)

// Request is the command envelope clients POST to /cmd.
type Request struct {
	Cmd  string            `json:"cmd"`
	Args map[string]string `json:"args"`
}

// Reply is the response envelope. Bulk commands (fetch) additionally set
// the payload fields: Payload carries the element bytes (base64 over the
// JSON wire), Encoding names the framing applied to them, and DType and
// Size describe how to decode the decompressed payload.
type Reply struct {
	MsgType  MsgType `json:"msgType"`
	Msg      string  `json:"msg"`
	Payload  []byte  `json:"payload,omitempty"`
	Encoding string  `json:"encoding,omitempty"`
	DType    string  `json:"dtype,omitempty"`
	Size     int     `json:"size,omitempty"`
}

func normal(msg string) Reply {
	return Reply{MsgType: MsgNormal, Msg: msg}
}

func errorReply(err error) Reply {
	return Reply{MsgType: MsgError, Msg: "Error: " + err.Error()}
}
