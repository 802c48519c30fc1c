package util

import (
	"errors"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date representa uma data de calendário (sem horário) serializada
// como "AAAA-MM-DD" no JSON.
type Date struct {
	time.Time
}

// ParseDate interpreta "AAAA-MM-DD".
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, errors.New("data inválida")
	}
	return Date{Time: t}, nil
}

// NewDate constrói Date a partir de time.Time, descartando o horário.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// After compara apenas a parte de data.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// MarshalJSON serializa como string "AAAA-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON aceita "AAAA-MM-DD" e também timestamps ISO completos,
// descartando a parte de horário.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return errors.New("data inválida")
	}
	if idx := strings.IndexByte(raw, 'T'); idx > 0 {
		raw = raw[:idx]
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
