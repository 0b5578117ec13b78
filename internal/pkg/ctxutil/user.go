package ctxutil

import "context"

// 使用私有类型避免与其他 context key 冲突
type userIDKeyType struct{}
type userRoleKeyType struct{}

var (
	userIDKey   = userIDKeyType{}
	userRoleKey = userRoleKeyType{}
)

// WithUser 将认证用户的 userID 和 role 注入到 context 中
// 说明：在认证中间件中解析 JWT 成功后调用：
//
//	ctx := ctxutil.WithUser(c.Request.Context(), claims.UserID, claims.Role)
//	c.Request = c.Request.WithContext(ctx)
func WithUser(ctx context.Context, userID, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userRoleKey, role)
}

// GetUserID 从 context 中解析 userID
func GetUserID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// GetUserRole 从 context 中解析用户角色
func GetUserRole(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	role, ok := ctx.Value(userRoleKey).(string)
	if !ok || role == "" {
		return "", false
	}
	return role, true
}
