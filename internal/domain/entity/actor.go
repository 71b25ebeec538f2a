package entity

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleConsulta  = "consulta"
)

// Actor identidad de quien ejecuta una operación; se arma por petición y se pasa explícitamente.
type Actor struct {
	UserID string
	Name   string
	Role   string
}

// SystemActor actor usado por procesos internos (importación programada, CLI).
func SystemActor(name string) Actor {
	return Actor{UserID: "system", Name: name, Role: RoleAdmin}
}
