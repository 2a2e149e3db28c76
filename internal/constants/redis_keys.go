package constants

// Redis Key 前缀和格式常量
// 统一命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// ScreeningModulePrefix 筛选模块
	ScreeningModulePrefix = "screening"

	// EntitySession 筛选会话实体
	EntitySession = "session"

	// KeyScreeningSession 筛选会话缓存 (String, JSON编码的Session)
	// 格式: app:screening:session:{sessionID}
	KeyScreeningSession = AppPrefix + ":" + ScreeningModulePrefix + ":" + EntitySession + ":"
)
