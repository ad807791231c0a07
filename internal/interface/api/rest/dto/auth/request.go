package auth

// Request is accepted both as a form post and as JSON.
type Request struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}
