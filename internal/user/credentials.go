package user

// Credentials — тело запросов логина и регистрации
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
