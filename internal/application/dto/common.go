package dto

import (
	"bytes"
	"encoding/json"
	"errors"
)

// DateLayout formato de fechas de calendario en la API.
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RawNumber cantidad tal como la envía el cliente: acepta número JSON o string.
// La validación (entero > 0) la hace el caso de uso.
type RawNumber string

// UnmarshalJSON acepta 5, "5" o " 5 ".
func (n *RawNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = RawNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return errors.New("quantity debe ser número o string")
	}
	*n = RawNumber(num.String())
	return nil
}
