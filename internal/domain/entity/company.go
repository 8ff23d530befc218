package entity

import (
	"strings"
	"time"
)

// JoinCodeLength longitud del código de unión (hex en minúsculas).
const JoinCodeLength = 8

// Company representa una empresa. El creador queda como miembro
// privilegiado: al unirse por primera vez se promueve a super_manager.
type Company struct {
	ID          string
	Name        string
	Description string
	JoinCode    string // 8 caracteres hex, comparación case-insensitive
	CreatedBy   string // ID del usuario creador
	CreatedAt   time.Time
}

// NormalizeJoinCode normaliza un código de unión para comparar o buscar.
func NormalizeJoinCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsCreator indica si el usuario dado creó la empresa.
func (c *Company) IsCreator(userID string) bool {
	return c.CreatedBy == userID
}
