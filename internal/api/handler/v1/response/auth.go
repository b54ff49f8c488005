package response

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type SignupResponse struct {
	User    User   `json:"user"`
	Warning string `json:"warning,omitempty"`
}

type UploadResponse struct {
	Filename string `json:"filename"`
}
