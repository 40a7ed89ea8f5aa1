package eventbus

const (
	// TopicCacheChanged fires after a cache entry changed status or data.
	TopicCacheChanged = "cache:changed"
	// TopicCredentialRevoked fires when the backend rejected the stored token.
	TopicCredentialRevoked = "credential:revoked"
)

// CacheChanged is the payload of TopicCacheChanged.
type CacheChanged struct {
	Cache  string `json:"cache"`
	Key    string `json:"key"`
	Status string `json:"status"`
}

// CredentialRevoked is the payload of TopicCredentialRevoked.
type CredentialRevoked struct {
	Status int    `json:"status"`
	Method string `json:"method"`
	URL    string `json:"url"`
}
