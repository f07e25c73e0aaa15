package consts

const (
	MimePrefixImage = "image"
)

const (
	PostImagesPrefix = "post_images"
	PostCoversPrefix = "post_covers"
)

const (
	NotificationTypeNewPost = "NEW_POST"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)
