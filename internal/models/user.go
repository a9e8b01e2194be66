package models

import "time"

// UserRole tags the account variant. Roles are fixed at construction and
// never change afterwards.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// User holds the fields shared by both account variants. The password is an
// opaque secret: it never appears in JSON output or persistence projections.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Persisted reports whether the storage layer has assigned an identifier.
func (u *User) Persisted() bool {
	return u.ID != 0
}

// ValidateCredential reports whether the candidate matches the stored secret.
// Comparison is exact; see AuthService for the optional hashed mode.
func (u *User) ValidateCredential(candidate string) bool {
	return u.Password != "" && u.Password == candidate
}

// Student is the learner variant, identified by a unique NIM and a class
// label. Both are required at registration time.
type Student struct {
	User
	NIM       string `db:"nim" json:"nim"`
	ClassName string `db:"class" json:"class"`
}

// Admin is the administrative variant. It carries no extra fields; its
// credentials are seeded from configuration at first run.
type Admin struct {
	User
}

// NewStudent constructs an in-memory student, defaulting the creation
// timestamp when unset.
func NewStudent(name, username, nim, password, className string) *Student {
	return &Student{
		User: User{
			Username:  username,
			Name:      name,
			Password:  password,
			Role:      RoleStudent,
			CreatedAt: time.Now().UTC(),
		},
		NIM:       nim,
		ClassName: className,
	}
}

// NewAdmin constructs an in-memory admin, defaulting the creation timestamp
// when unset.
func NewAdmin(name, username, password string) *Admin {
	return &Admin{
		User: User{
			Username:  username,
			Name:      name,
			Password:  password,
			Role:      RoleAdmin,
			CreatedAt: time.Now().UTC(),
		},
	}
}

// PersistenceProjection maps the student's public fields for storage and
// display. The password is always omitted.
func (s *Student) PersistenceProjection() map[string]interface{} {
	return map[string]interface{}{
		"id":         idOrNil(s.ID),
		"name":       s.Name,
		"username":   s.Username,
		"nim":        s.NIM,
		"class":      s.ClassName,
		"role":       s.Role,
		"created_at": s.CreatedAt.Format(time.RFC3339),
	}
}

// PersistenceProjection maps the admin's public fields. Student-only fields
// are carried as explicit nulls so both variants share one row shape.
func (a *Admin) PersistenceProjection() map[string]interface{} {
	return map[string]interface{}{
		"id":         idOrNil(a.ID),
		"name":       a.Name,
		"username":   a.Username,
		"nim":        nil,
		"class":      nil,
		"role":       a.Role,
		"created_at": a.CreatedAt.Format(time.RFC3339),
	}
}

func idOrNil(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
