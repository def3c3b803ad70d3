package actor

import "strings"

// Roles
const (
	// Registrar (school office)
	RoleRegistrar     = "registrar:"
	RoleRegistrarHead = "registrar:head"

	// Teacher
	RoleTeacher = "teacher:"

	// Student
	RoleStudent = "student:"
)

var (
	RegistrarRoles = []string{RoleRegistrar, RoleRegistrarHead}
	TeacherRoles   = []string{RoleTeacher}
	StudentRoles   = []string{RoleStudent}
	AllRoles       = getAllRoles()

	rolePriorities = map[string]int{
		// Registrars: 30 - 21
		RoleRegistrarHead: 30,
		RoleRegistrar:     21,

		// Teachers: 20 - 11
		RoleTeacher: 11,

		// Students: 10 - 1
		RoleStudent: 1,
	}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Registrar", Value: RoleRegistrar},
		{Name: "Registrar Head", Value: RoleRegistrarHead},
	}
)

func getAllRoles() []string {
	all := make([]string, 0, 4)
	all = append(all, RegistrarRoles...)
	all = append(all, TeacherRoles...)
	all = append(all, StudentRoles...)
	return all
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Actor is the authenticated viewer on whose behalf an operation runs.
// Authentication itself is external; the API layer builds an Actor from
// verified JWT claims.
type Actor struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func (a Actor) RoleStartsWith(prefix string) bool {
	for _, role := range a.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (a Actor) IsRegistrar() bool {
	return a.RoleStartsWith(RoleRegistrar)
}

func (a Actor) IsTeacher() bool {
	return a.RoleStartsWith(RoleTeacher)
}

func (a Actor) IsStudent() bool {
	return a.RoleStartsWith(RoleStudent)
}

// BypassesPublishGate reports whether the actor may see unpublished posts.
func (a Actor) BypassesPublishGate() bool {
	return a.IsTeacher() || a.IsRegistrar()
}
