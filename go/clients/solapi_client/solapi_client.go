package solapi_client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/playgroundhq/playground-reminder/go/clients"
)

// SolapiClient sends templated Kakao alimtalk messages (with SMS failover)
// through the Solapi message API.
type SolapiClient struct {
	*clients.BaseClient

	apiKey    string
	apiSecret string
	sender    string
	pfID      string
}

// NewSolapiClient creates a Solapi client. Empty credentials produce an
// unconfigured client; callers are expected to check IsConfigured before
// dispatching.
func NewSolapiClient(apiKey, apiSecret, sender, pfID string) *SolapiClient {
	return &SolapiClient{
		BaseClient: clients.NewBaseClient(BaseURL),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		sender:     sender,
		pfID:       pfID,
	}
}

// IsConfigured reports whether the gateway credentials are present. Absence
// is a valid configuration state, not an error. The sender number counts as
// a credential: without it every message would carry an empty from field.
func (c *SolapiClient) IsConfigured() bool {
	return c.apiKey != "" && c.apiSecret != "" && c.sender != "" && c.pfID != ""
}

// SendBatch submits all messages as a single send-many call. The client
// fills the sender number and Kakao channel id on each message.
func (c *SolapiClient) SendBatch(ctx context.Context, messages []Message) (*SendManyResponse, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("solapi client is not configured")
	}
	if len(messages) == 0 {
		return &SendManyResponse{}, nil
	}

	for i := range messages {
		messages[i].From = c.sender
		if messages[i].KakaoOptions != nil {
			messages[i].KakaoOptions.PfID = c.pfID
		}
		if messages[i].Failover != nil {
			messages[i].Failover.From = c.sender
		}
	}

	body, err := json.Marshal(SendManyRequest{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal send-many request: %w", err)
	}

	headers := map[string]string{
		ContentTypeHeader:   ContentTypeJSON,
		AuthorizationHeader: c.authorizationHeader(time.Now().UTC()),
	}

	respBody, err := c.Post(ctx, SendManyEndpoint, bytes.NewReader(body), headers)
	if err != nil {
		return nil, fmt.Errorf("send-many request failed: %w", err)
	}

	var resp SendManyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal send-many response: %w", err)
	}

	return &resp, nil
}

// authorizationHeader builds the Solapi HMAC-SHA256 header: the signature
// is the hex digest of date+salt keyed with the API secret.
func (c *SolapiClient) authorizationHeader(now time.Time) string {
	date := now.Format(time.RFC3339)
	salt := uuid.New().String()

	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(date + salt))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("HMAC-SHA256 apiKey=%s, date=%s, salt=%s, signature=%s", c.apiKey, date, salt, signature)
}
