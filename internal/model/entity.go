package model

import (
	"time"
)

// User 사용자
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Nickname   string    `gorm:"type:varchar(100);not null" json:"nickname"`
	ProfileImg *string   `gorm:"type:text" json:"profile_img,omitempty"`
	Provider   *string   `gorm:"type:varchar(50)" json:"provider,omitempty"`
	ProviderID *string   `gorm:"type:varchar(255)" json:"provider_id,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Rooms []RoomMember `gorm:"foreignKey:UserID" json:"rooms,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Room 그리기 방
type Room struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	OwnerID   int64     `gorm:"not null" json:"owner_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Owner   User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []RoomMember  `gorm:"foreignKey:RoomID" json:"members,omitempty"`
	Shapes  []ShapeRecord `gorm:"foreignKey:RoomID" json:"shapes,omitempty"`
}

func (Room) TableName() string {
	return "rooms"
}

// RoomMember 방 멤버
type RoomMember struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID   int64     `gorm:"not null;uniqueIndex:idx_room_user" json:"room_id"`
	UserID   int64     `gorm:"not null;uniqueIndex:idx_room_user" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	// Relations
	Room Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (RoomMember) TableName() string {
	return "room_members"
}

// ShapeRecord 방별 도형 데이터. Data 는 와이어 포맷 그대로의 JSON.
// ID 가 곧 durable shape id (문자열로 직렬화되어 클라이언트로 나감).
type ShapeRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    int64     `gorm:"not null;index:idx_room_created" json:"room_id"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	Data      string    `gorm:"type:jsonb;not null" json:"data"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_room_created" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Room Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (ShapeRecord) TableName() string {
	return "shape_records"
}
