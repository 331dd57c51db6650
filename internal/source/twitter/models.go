package twitter

// userResponse is the users/by/username response (API v2).
type userResponse struct {
	Data APIUser `json:"data"`
}

type APIUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// tweetsResponse is the user tweets timeline response.
type tweetsResponse struct {
	Data []APITweet `json:"data"`
}

type APITweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}
