package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Mobile       string    `json:"mobile"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // не отдаём наружу
	Email        string    `json:"email,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	UserDesc     string    `json:"user_desc,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// RegisterRequest обслуживает и регистрацию, и "забыли пароль":
// обе формы несут одинаковый набор полей.
type RegisterRequest struct {
	Mobile    string `json:"mobile"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	SmsCode   string `json:"sms_code"`
}
