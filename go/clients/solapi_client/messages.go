package solapi_client

// KakaoOptions selects the registered alimtalk template and fills its
// variables (#{venue}, #{date}, #{dday}).
type KakaoOptions struct {
	PfID       string            `json:"pfId"`
	TemplateID string            `json:"templateId"`
	Variables  map[string]string `json:"variables,omitempty"`
}

// Failover is the SMS fallback sent when the alimtalk delivery fails.
type Failover struct {
	To   string `json:"to"`
	From string `json:"from"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is one outbound reminder. From and KakaoOptions.PfID are filled
// in by the client from its sender configuration.
type Message struct {
	To           string        `json:"to"`
	From         string        `json:"from,omitempty"`
	KakaoOptions *KakaoOptions `json:"kakaoOptions,omitempty"`
	Failover     *Failover     `json:"failover,omitempty"`
}

// SendManyRequest is the body of POST /messages/v4/send-many.
type SendManyRequest struct {
	Messages []Message `json:"messages"`
}

// GroupInfo summarizes the accepted message group.
type GroupInfo struct {
	GroupID string         `json:"groupId"`
	Count   map[string]int `json:"count,omitempty"`
}

// FailedMessage is one recipient the gateway rejected at submission time.
type FailedMessage struct {
	To           string `json:"to"`
	StatusCode   string `json:"statusCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// SendManyResponse is the gateway's per-batch outcome. Per-recipient
// delivery results arrive asynchronously and are not part of this contract.
type SendManyResponse struct {
	GroupInfo      GroupInfo       `json:"groupInfo"`
	FailedMessages []FailedMessage `json:"failedMessageList,omitempty"`
}
