package authsvc

import "sync"

var (
	defaultAuthz     *AuthorizationService
	defaultAuthzOnce sync.Once
)

// DefaultAuthorization trả về AuthorizationService dùng chung toàn process,
// build trên bảng phân quyền mặc định. Middleware và handler dùng chung instance này.
func DefaultAuthorization() *AuthorizationService {
	defaultAuthzOnce.Do(func() {
		defaultAuthz = NewAuthorizationService(NewDefaultMatrix())
	})
	return defaultAuthz
}
