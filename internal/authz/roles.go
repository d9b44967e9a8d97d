package authz

const (
	RoleMember  = 10
	RoleTrainer = 20
	RoleAdmin   = 50
)

func IsAdmin(roleID int) bool {
	return roleID == RoleAdmin
}
