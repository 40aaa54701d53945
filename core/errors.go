package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 对调用方可见的错误只有 USER_NOT_FOUND 一种；「没有推荐结果」不是错误，
// 引擎内部的计算失败会被策略选择吸收，不会向上抛出。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "USER_NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"       // 资源不存在
	ErrorCodeUserNotFound  = "USER_NOT_FOUND"  // 用户不存在（调用方可见）
	ErrorCodeNotSupported  = "NOT_SUPPORTED"   // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"   // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR"  // 内部错误
)

// 模块名称常量
const (
	ModuleStore    = "store"
	ModuleEngine   = "engine"
	ModuleRecall   = "recall"
	ModuleSnapshot = "snapshot"
	ModuleFeature  = "feature"
)

// ErrUserNotFound 是唯一对调用方可见的业务错误：目标用户不存在。
var ErrUserNotFound = NewDomainError(ModuleEngine, ErrorCodeUserNotFound, "engine: user not found")

// IsUserNotFound 检查错误是否为 USER_NOT_FOUND。
func IsUserNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUserNotFound
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}
