package consts

const (
	DraftUploadsKey = "draft:uploads:"
	MediaTempKey    = "media:temp"
)

const (
	PublishLock = "lock:publish:"
)

// TokenBlacklistKey 已注销的 Token 签名
const TokenBlacklistKey = "token:blacklist:"
