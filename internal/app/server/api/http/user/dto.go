package user

type registerInput struct {
	Body RegisterRequest
}

type RegisterRequest struct {
	Login       string `json:"login" minLength:"3" maxLength:"64" doc:"Логин пользователя"`
	Password    string `json:"password" minLength:"8" doc:"Пароль"`
	DisplayName string `json:"display_name,omitempty" maxLength:"120" doc:"Отображаемое имя в историях"`
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	ID     int    `json:"user_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type loginInput struct {
	Body LoginRequest
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
	Error  string `json:"error"`
}
