package dto

// PostDTO 发布后的帖子快照
type PostDTO struct {
	ID             uint64   `json:"id"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Tags           []string `json:"tags"`
	TagsLower      []string `json:"tags_lower"`
	TitleForSearch []string `json:"title_for_search"`
	CoverImage     string   `json:"cover_image"`
	TotalReads     int64    `json:"total_reads"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`

	// User
	UserID         uint64 `json:"user_id"`
	AuthorName     string `json:"author_name"`
	AuthorUsername string `json:"author_username"`
	AuthorAvatar   string `json:"author_avatar"`
}

// PublishWarningDTO 不影响发布结果的失败
type PublishWarningDTO struct {
	Kind    string `json:"kind"`
	Stage   string `json:"stage"`
	Ref     string `json:"ref,omitempty"`
	Message string `json:"message"`
}

// PublishResultDTO 发布结果，Degraded 表示发布成功但存在副作用失败
type PublishResultDTO struct {
	Post     *PostDTO             `json:"post"`
	Stages   []string             `json:"stages"`
	Degraded bool                 `json:"degraded"`
	Warnings []*PublishWarningDTO `json:"warnings"`
}
