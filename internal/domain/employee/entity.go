package employee

type Role string

const (
	RoleEmployee Role = "employee" // Regular employee, analytics subject
	RoleManager  Role = "manager"  // Views team analytics, approves leave, assigns tasks
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleManager
}

// UnknownName is shown for records whose owning profile no longer exists.
const UnknownName = "Unknown"

// EmployeeProfile is the identity every attendance, leave and task record points at.
type EmployeeProfile struct {
	ID         string
	Name       string
	EmployeeID string // human-facing employee code, e.g. "EMP-014"
	Branch     string
	Position   string
	Role       Role
}

// IsManager checks if the profile has manager access
func (p *EmployeeProfile) IsManager() bool {
	return p.Role == RoleManager
}
