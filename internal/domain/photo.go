package domain

import (
	"database/sql"
	"time"
)

// Photo 照片元数据领域模型（对应 photos 表）
// 只保存元数据；照片字节存储在外部对象存储（storage_key 指向外部对象）
type Photo struct {
	// 主键和租户
	PhotoID  string         `db:"photo_id"`  // UUID, PRIMARY KEY
	TenantID string         `db:"tenant_id"` // UUID, NOT NULL
	AlbumID  sql.NullString `db:"album_id"`  // nullable，可不属于任何相册

	// 照片元数据
	Title       string `db:"title"`       // VARCHAR(200), NOT NULL
	Description string `db:"description"` // nullable

	// 文件元数据
	Filename    string        `db:"filename"`     // 原始文件名
	StorageKey  string        `db:"storage_key"`  // 外部对象存储 key
	FileSize    sql.NullInt64 `db:"file_size"`    // 字节
	ContentType string        `db:"content_type"` // default 'image/jpeg'
	Width       sql.NullInt64 `db:"width"`
	Height      sql.NullInt64 `db:"height"`

	// 组织字段
	UploadedBy string `db:"uploaded_by"` // 上传者 user_id

	// 照片设置
	IsPublic   bool `db:"is_public"`
	IsFeatured bool `db:"is_featured"`

	// EXIF 元数据
	TakenAt     sql.NullTime `db:"taken_at"`
	CameraModel string       `db:"camera_model"`
	Location    string       `db:"location"`

	// 时间戳
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
