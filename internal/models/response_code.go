package models

// Коды результата для JSON-ответов. Значения совместимы с фронтендом,
// поэтому это строки, а не числа.
const (
	CodeOK                = "0"
	CodeImageErr          = "4001" // картинка: истекла или не совпала
	CodeThrottlingErr     = "4002" // отправка SMS не удалась / слишком часто
	CodeNecessaryParamErr = "4003"
	CodeUserErr           = "4004" // дубликат или не найден пользователь
	CodePwdErr            = "4005"
	CodeCPwdErr           = "4006" // пароли не совпали
	CodeMobileErr         = "4007"
	CodeSmsCodeErr        = "4008"
	CodeSessionErr        = "4101"
	CodeDBErr             = "5000"
)
