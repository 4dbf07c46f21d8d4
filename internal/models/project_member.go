package models

import "time"

type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

type ProjectMember struct {
	ProjectID uint64     `gorm:"primarykey" json:"project_id"`
	UserID    uint64     `gorm:"primarykey" json:"user_id"`
	Role      MemberRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt  time.Time  `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
