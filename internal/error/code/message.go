package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:      "成功",
	ErrUnknown:      "未知错误",
	ErrBind:         "请求参数绑定错误",
	ErrValidation:   "请求参数验证错误",
	ErrTokenInvalid: "无效的认证令牌",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",

	// 诊断相关错误码
	ErrUnsupportedFormat: "不支持的图像格式",
	ErrInferenceFailure:  "模型推理失败",
	ErrUploadTooLarge:    "上传文件过大",

	// 病例相关错误码
	ErrPatientNotFound:     "病例不存在",
	ErrPatientAlreadyExist: "病例已存在",

	// 报告打印相关错误码
	ErrReportFailed:     "报告生成失败",
	ErrPrintUnavailable: "打印服务不可用",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 员工相关错误码
	ErrStaffNotFound:     "员工不存在",
	ErrStaffAlreadyExist: "员工已存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:      StatusOK,
	ErrUnknown:      StatusInternalServerError,
	ErrBind:         StatusBadRequest,
	ErrValidation:   StatusBadRequest,
	ErrTokenInvalid: StatusUnauthorized,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 诊断相关错误码
	ErrUnsupportedFormat: StatusBadRequest,
	ErrInferenceFailure:  StatusInternalServerError,
	ErrUploadTooLarge:    StatusBadRequest,

	// 病例相关错误码
	ErrPatientNotFound:     StatusNotFound,
	ErrPatientAlreadyExist: StatusBadRequest,

	// 报告打印相关错误码
	ErrReportFailed:     StatusInternalServerError,
	ErrPrintUnavailable: StatusInternalServerError,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 员工相关错误码
	ErrStaffNotFound:     StatusNotFound,
	ErrStaffAlreadyExist: StatusBadRequest,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
