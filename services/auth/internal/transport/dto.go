package transport

type Credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type RegisterResponse struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	AccessExp   int64  `json:"access_exp"`
	IsAdmin     bool   `json:"is_admin"`
}
