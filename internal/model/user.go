package model

// User is an account allowed to call the API.
type User struct {
	Username     string   `json:"username"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	Disabled     bool     `json:"disabled"`
	PasswordHash string   `json:"-"`
}

// HasPermission reports whether the user holds perm. "all" grants everything.
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == "all" || p == perm {
			return true
		}
	}
	return false
}
