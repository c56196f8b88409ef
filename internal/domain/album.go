package domain

import (
	"database/sql"
	"time"
)

// Album 相册领域模型（对应 albums 表）
// 租户内的照片集合（活动、事工等）。tenant_id 为强制字段，
// 所有读写必须经过 Scoped Data Accessor 注入租户谓词
type Album struct {
	// 主键和租户
	AlbumID  string `db:"album_id"`  // UUID, PRIMARY KEY
	TenantID string `db:"tenant_id"` // UUID, NOT NULL

	// 相册元数据
	Title       string `db:"title"`       // VARCHAR(200), NOT NULL，租户内唯一
	Description string `db:"description"` // nullable

	// 组织字段
	CreatedBy string `db:"created_by"` // 创建者 user_id

	// 相册设置
	IsPublic   bool `db:"is_public"`   // 是否对全租户成员可见
	IsFeatured bool `db:"is_featured"` // 是否置顶展示

	// 关联活动日期（可选）
	EventDate sql.NullTime `db:"event_date"`

	// 时间戳
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
