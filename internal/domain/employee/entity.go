package employee

import "time"

type Employee struct {
	ID         string
	FullName   string
	Department string
	Role       Role
	IsActive   bool
	HireDate   time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// CanManage reports whether the role may read other employees' data.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}

// EmployeeFilter narrows List. Zero value returns every employee.
type EmployeeFilter struct {
	Department *string
	ActiveOnly bool
}
