package xerrors

var (
	// ErrInvalidRequest 请求体无法解析。
	ErrInvalidRequest = New(ErrInvalidArg, 400100, "invalid request", "request body is not valid JSON for this operation", nil)
	// ErrNegativeDepth 细分深度为负数。
	ErrNegativeDepth = New(ErrInvalidArg, 400101, "negative depth", "subdivision depth must be a non-negative integer", nil)
	// ErrInvalidSteps 几何体的默认细分步数越界。
	ErrInvalidSteps = New(ErrInvalidArg, 400102, "invalid steps", "steps must be between 0 and the configured maximum", nil)
	// ErrInvalidPoint 坐标点无效（纬度越界或非有限数值）。
	ErrInvalidPoint = New(ErrInvalidArg, 400103, "invalid point", "latitude must be within [-90, 90] and coordinates must be finite", nil)
	// ErrInvalidRadius 圆半径必须为正数。
	ErrInvalidRadius = New(ErrInvalidArg, 400104, "invalid radius", "radius must be a positive number of meters", nil)
	// ErrTooFewVertices 圆的顶点数不足。
	ErrTooFewVertices = New(ErrInvalidArg, 400105, "too few vertices", "a circle needs at least 3 vertices", nil)
	// ErrEmptyPoints 点集不能为空。
	ErrEmptyPoints = New(ErrInvalidArg, 400106, "empty points", "input point set must not be empty", nil)
	// ErrDepthTooLarge 细分深度超过服务端上限。
	ErrDepthTooLarge = New(ErrInvalidArg, 400107, "depth too large", "subdivision depth exceeds the configured maximum", nil)
	// ErrTooManyPoints 结果点数超过服务端限制。
	ErrTooManyPoints = New(ErrLimitExceeded, 429101, "too many points", "requested geometry exceeds the configured point budget", nil)
)

var (
	// ErrBodyTooLarge 请求体超过服务端限制。
	ErrBodyTooLarge = New(ErrTooLarge, 413001, "request body too large", "request body exceeds the configured size limit", nil)
	// ErrRateLimited 客户端请求过于频繁。
	ErrRateLimited = New(ErrLimitExceeded, 429001, "too many requests", "access rate limit exceeded", nil)
	// ErrTimeout 请求处理超时。
	ErrTimeout = New(ErrDeadlineExceeded, 504001, "request timeout", "request did not finish before the deadline", nil)
	// ErrPanic 处理器发生 panic。
	ErrPanic = New(ErrInternal, 500001, "internal server error", "an unexpected error occurred", nil)
)
