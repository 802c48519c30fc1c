package util

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidationError marca entrada inválida do usuário, distinta de falha
// interna: handlers traduzem para 400, nunca para 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Invalid cria erro de validação com mensagem legível.
func Invalid(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation informa se o erro, em qualquer ponto da cadeia, é
// entrada inválida.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ValidateEmail retorna erro de validação para e-mails inválidos.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return Invalid("email obrigatório")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Invalid("email inválido")
	}
	return nil
}

// ValidatePassword verifica requisitos mínimos de senha.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return Invalid("senha deve ter pelo menos 8 caracteres")
	}
	return nil
}
