package solapi_client

const (
	BaseURL = "https://api.solapi.com"

	SendManyEndpoint = "/messages/v4/send-many"

	AuthorizationHeader = "Authorization"
	ContentTypeHeader   = "Content-Type"
	ContentTypeJSON     = "application/json"
)
