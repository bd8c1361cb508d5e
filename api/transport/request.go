package transport

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TaskCreateRequest struct {
	Text string `json:"text"`
	Date string `json:"date,omitempty"`
}
