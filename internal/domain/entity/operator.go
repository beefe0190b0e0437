package entity

// Operator identidad opaca de quien actúa, resuelta por el proveedor de identidad.
// Se pasa explícitamente a cada mutación.
type Operator struct {
	ID   string
	Role string
}

// Anonymous indica que no hay identidad resuelta.
func (o Operator) Anonymous() bool {
	return o.ID == ""
}
