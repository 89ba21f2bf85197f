package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
)

// 诊断相关错误码 (102xxx).
const (
	// ErrUnsupportedFormat - 400: 不支持的图像格式.
	ErrUnsupportedFormat int = iota + 102000
	// ErrInferenceFailure - 500: 模型推理失败.
	ErrInferenceFailure
	// ErrUploadTooLarge - 400: 上传文件过大.
	ErrUploadTooLarge
)

// 病例相关错误码 (103xxx).
const (
	// ErrPatientNotFound - 404: 病例不存在.
	ErrPatientNotFound int = iota + 103000
	// ErrPatientAlreadyExist - 400: 病例已存在.
	ErrPatientAlreadyExist
)

// 报告打印相关错误码 (104xxx).
const (
	// ErrReportFailed - 500: 报告生成失败.
	ErrReportFailed int = iota + 104000
	// ErrPrintUnavailable - 500: 打印服务不可用.
	ErrPrintUnavailable
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 员工相关错误码 (106xxx).
const (
	// ErrStaffNotFound - 404: 员工不存在.
	ErrStaffNotFound int = iota + 106000
	// ErrStaffAlreadyExist - 400: 员工已存在.
	ErrStaffAlreadyExist
)
