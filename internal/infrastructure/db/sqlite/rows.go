package sqlite

import "github.com/bl00dPhant0m/LiquiBase/internal/core/domain"

// Row types mirror the tables created by the migrations. They never leave
// this package; repositories map them to domain types.

type bookRow struct {
	ID    int64 `gorm:"primaryKey"`
	Title *string
	Price *int
}

func (bookRow) TableName() string { return "books" }

func toBookRow(b *domain.Book) bookRow {
	return bookRow{ID: b.ID, Title: b.Title, Price: b.Price}
}

func (r bookRow) toDomain() domain.Book {
	return domain.Book{ID: r.ID, Title: r.Title, Price: r.Price}
}

type userRow struct {
	ID       int64 `gorm:"primaryKey"`
	Username string
	Password string
	Roles    []userRoleRow `gorm:"foreignKey:UserID"`
}

func (userRow) TableName() string { return "users" }

type userRoleRow struct {
	UserID int64  `gorm:"primaryKey;autoIncrement:false"`
	Role   string `gorm:"primaryKey"`
}

func (userRoleRow) TableName() string { return "user_roles" }

func toUserRow(u *domain.User) userRow {
	roles := make([]userRoleRow, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, userRoleRow{UserID: u.ID, Role: r})
	}
	return userRow{
		ID:       u.ID,
		Username: u.Username,
		Password: u.Password,
		Roles:    roles,
	}
}

func (r userRow) toDomain() *domain.User {
	roles := make([]string, 0, len(r.Roles))
	for _, role := range r.Roles {
		roles = append(roles, role.Role)
	}
	return &domain.User{
		ID:       r.ID,
		Username: r.Username,
		Password: r.Password,
		Roles:    roles,
	}
}
