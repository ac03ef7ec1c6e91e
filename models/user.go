package models

// Role tags carried in JWT claims and notification targeting.
const (
	RoleAdmin             = "ADMIN"
	RoleGestorContrato    = "GESTOR_CONTRATO"
	RoleFiscal            = "FISCAL"
	RoleOrdenadorDespesas = "ORDENADOR_DESPESAS"

	// Fiscal sub-roles used by deadline-warning targeting.
	RoleFiscalAdministrativo = "FISCAL_ADMINISTRATIVO"
	RoleFiscalTecnico        = "FISCAL_TECNICO"
)

// User is a dashboard account. Password holds a bcrypt hash and is never
// serialized in responses.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"-"`
}

// UserResponse is the shape returned by user listing endpoints.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (u User) ToResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
