package truthsocial

// APIAccount is the account lookup response (Mastodon-compatible API).
type APIAccount struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// APIStatus is one status entry from the statuses listing.
type APIStatus struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
	Content   string `json:"content"`
}
