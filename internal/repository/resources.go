package repository

// 资源类名称（决策事件与指标的 resource_class 维度）
const (
	ResourceAlbums         = "albums"
	ResourcePhotos         = "photos"
	ResourceTenants        = "tenants"
	ResourceSecurityEvents = "security_events"
)
