package service

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/model"
	"Chatter/internal/pkg/asset"
	"Chatter/internal/pkg/content"
	"Chatter/internal/pkg/minio"
	"Chatter/internal/pkg/redis"
	"Chatter/internal/pkg/util"
	"Chatter/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// PublishService 发布流水线
// VALIDATING → RECONCILING_ASSETS → PERSISTING → UPLOADING_COVER → FANNING_OUT(仅新建) → DONE
type PublishService interface {
	// Publish draft.PostID 为 0 时新建，否则编辑
	Publish(ctx context.Context, userID uint64, draft *dto.DraftDTO) (*PublishResult, error)
}

// PublishResult 发布成功的结果，Warnings 为不影响发布的失败
type PublishResult struct {
	Post     *model.Post
	Stages   []Stage
	Warnings []*PipelineError
}

// Degraded 发布成功但存在副作用失败
func (r *PublishResult) Degraded() bool {
	return len(r.Warnings) > 0
}

type publishServiceImpl struct {
	validator  DraftValidator
	converter  content.Converter
	storage    minio.ObjectStorage
	sessions   redis.UploadSessionRepo
	postRepo   repository.PostRepo
	userRepo   repository.UserRepo
	followRepo repository.UserFollowRepo
	cover      CoverService
	dispatcher FanoutDispatcher
	lockTTL    time.Duration
	now        func() time.Time
}

func NewPublishService(
	validator DraftValidator,
	converter content.Converter,
	storage minio.ObjectStorage,
	sessions redis.UploadSessionRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	followRepo repository.UserFollowRepo,
	cover CoverService,
	dispatcher FanoutDispatcher,
	lockTTL time.Duration,
) PublishService {
	return &publishServiceImpl{
		validator:  validator,
		converter:  converter,
		storage:    storage,
		sessions:   sessions,
		postRepo:   postRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		cover:      cover,
		dispatcher: dispatcher,
		lockTTL:    lockTTL,
		now:        time.Now,
	}
}

// publishRun 单次发布的过程状态
type publishRun struct {
	userID   uint64
	draft    *dto.DraftDTO
	editing  bool
	author   *model.User
	prior    *model.Post
	body     string
	commit   content.AssetSet
	post     *model.Post
	result   *PublishResult
	lockHeld string
}

func (s *publishServiceImpl) Publish(ctx context.Context, userID uint64, draft *dto.DraftDTO) (*PublishResult, error) {
	run := &publishRun{
		userID:  userID,
		draft:   draft,
		editing: draft != nil && draft.PostID != 0,
		result:  &PublishResult{},
	}
	defer s.releaseLock(ctx, run)

	steps := []struct {
		stage Stage
		skip  bool
		fn    func(context.Context, *publishRun) error
	}{
		{stage: StageValidating, fn: s.validate},
		{stage: StageReconciling, fn: s.reconcile},
		{stage: StagePersisting, fn: s.persist},
		{stage: StageUploadingCover, skip: draft == nil || draft.Cover == nil, fn: s.uploadCover},
		{stage: StageFanningOut, skip: run.editing, fn: s.fanOut},
	}

	for _, step := range steps {
		if step.skip {
			continue
		}
		run.result.Stages = append(run.result.Stages, step.stage)
		log.InfoContext(ctx, "publish stage", "stage", step.stage, "post_id", postIDOf(run), "user_id", userID)
		if err := step.fn(ctx, run); err != nil {
			run.result.Stages = append(run.result.Stages, StageFailed)
			log.WarnContext(ctx, "publish failed", "stage", step.stage, "post_id", postIDOf(run), "err", err)
			return nil, err
		}
	}

	run.result.Stages = append(run.result.Stages, StageDone)
	run.result.Post = run.post
	log.InfoContext(ctx, "publish done", "post_id", run.post.ID, "degraded", run.result.Degraded(), "warnings", len(run.result.Warnings))
	return run.result, nil
}

// validate 任何失败都发生在副作用之前
func (s *publishServiceImpl) validate(ctx context.Context, run *publishRun) error {
	if fields := s.validator.Validate(ctx, run.draft); len(fields) > 0 {
		return NewValidationError(fields)
	}

	author, err := s.userRepo.GetUserById(ctx, run.userID)
	if err != nil {
		return newPipelineError(ErrPersistence, StageValidating, err)
	}
	if author == nil {
		return newPipelineError(ErrValidation, StageValidating, ErrUserNotFound)
	}
	if author.IsBan || author.IsDelete {
		return newPipelineError(ErrValidation, StageValidating, ErrUserBan)
	}
	run.author = author

	if run.editing {
		prior, err := s.postRepo.GetPost(ctx, run.draft.PostID)
		if err != nil {
			return newPipelineError(ErrPersistence, StageValidating, err)
		}
		if prior == nil {
			return newPipelineError(ErrValidation, StageValidating, ErrPostNotFound)
		}
		if prior.UserID != run.userID {
			return newPipelineError(ErrValidation, StageValidating, UnauthorizedError)
		}
		run.prior = prior
	}

	if run.draft.SessionID != "" {
		token := uuid.NewString()
		ok, err := s.sessions.TryLock(ctx, run.userID, run.draft.SessionID, token, s.lockTTL)
		if err != nil {
			return newPipelineError(ErrPersistence, StageValidating, err)
		}
		if !ok {
			return newPipelineError(ErrValidation, StageValidating, ErrPublishInFlight)
		}
		run.lockHeld = token
	}
	return nil
}

// reconcile 得到规范正文，删除本会话上传但已不再引用的资源
func (s *publishServiceImpl) reconcile(ctx context.Context, run *publishRun) error {
	body, err := content.Convert(ctx, s.converter, run.draft.Body, run.draft.Mode, content.ModeRich)
	if err != nil {
		return newPipelineError(ErrConversion, StageReconciling, err)
	}
	run.body = body
	// 正文引用的资源无论来自哪个会话都要提交，否则会被定时清理删除
	run.commit = content.ExtractAssets(body)

	if run.draft.SessionID == "" {
		return nil
	}

	uploaded, err := s.sessions.Uploaded(ctx, run.userID, run.draft.SessionID)
	if err != nil {
		s.warn(ctx, run, newPipelineError(ErrPurge, StageReconciling, err))
		return nil
	}

	mgr := asset.NewManager(s.storage, uploaded...)
	orphans := mgr.Reconcile(body)
	if orphans.Len() == 0 {
		return nil
	}

	// 已被其他帖子提交的资源不再是孤儿
	pending, err := s.sessions.Pending(ctx, orphans.Sorted()...)
	if err != nil {
		s.warn(ctx, run, newPipelineError(ErrPurge, StageReconciling, err))
		return nil
	}
	orphans = orphans.Intersect(content.NewAssetSet(pending...))
	failures := mgr.Purge(ctx, orphans)

	for _, f := range failures {
		s.warn(ctx, run, &PipelineError{Kind: ErrPurge, Stage: StageReconciling, Ref: f.Ref, Err: f.Err})
	}
	// 删除失败的仍留在 Uploaded 中，台账保留给定时清理
	if purged := orphans.Difference(mgr.Uploaded()); purged.Len() > 0 {
		if err = s.sessions.Forget(ctx, run.userID, run.draft.SessionID, purged.Sorted()...); err != nil {
			log.WarnContext(ctx, "forget purged uploads failed", "err", err)
		}
	}
	return nil
}

// persist 失败即终止，之后的步骤都不会执行
func (s *publishServiceImpl) persist(ctx context.Context, run *publishRun) error {
	post := s.buildPost(run)

	if run.editing {
		if err := s.postRepo.UpdatePost(ctx, post); err != nil {
			return newPipelineError(ErrPersistence, StagePersisting, err)
		}
	} else {
		id, err := s.postRepo.CreatePost(ctx, post)
		if err != nil {
			return newPipelineError(ErrPersistence, StagePersisting, err)
		}
		post.ID = id
	}
	run.post = post

	if err := s.sessions.Commit(ctx, run.commit.Sorted()...); err != nil {
		log.WarnContext(ctx, "commit referenced uploads failed", "post_id", post.ID, "err", err)
	}
	if run.draft.SessionID != "" {
		if err := s.sessions.Discard(ctx, run.userID, run.draft.SessionID); err != nil {
			log.WarnContext(ctx, "discard upload session failed", "post_id", post.ID, "err", err)
		}
	}
	return nil
}

func (s *publishServiceImpl) buildPost(run *publishRun) *model.Post {
	var post model.Post
	if run.prior != nil {
		post = *run.prior
	} else {
		post = model.Post{
			UserID:    run.userID,
			CreatedAt: s.now(),
		}
	}

	tags, tagsLower := util.NormalizeTags(run.draft.Tags)
	name, username, avatar := authorIdentity(run.author)

	if run.prior == nil {
		post.AuthorName, post.AuthorUsername, post.AuthorAvatar = name, username, avatar
	}
	post.Title = run.draft.Title
	post.Content = run.body
	post.Tags = tags
	post.TagsLower = tagsLower
	post.TitleForSearch = util.SearchTerms(run.draft.Title, name, username)
	if run.draft.CoverURL != "" {
		post.CoverImage = run.draft.CoverURL
	}
	post.UpdatedAt = s.now()
	return &post
}

// uploadCover 帖子已持久化，失败只作为警告返回
func (s *publishServiceImpl) uploadCover(ctx context.Context, run *publishRun) error {
	url, err := s.cover.Upload(ctx, run.post.ID, run.draft.Cover)
	if err != nil {
		s.warn(ctx, run, asPipelineError(err, ErrUpload, StageUploadingCover))
		return nil
	}
	run.post.CoverImage = url
	return nil
}

// fanOut 仅新建时执行，投递给后台，不等待结果
func (s *publishServiceImpl) fanOut(ctx context.Context, run *publishRun) error {
	followers, err := s.followRepo.GetFollowerIDs(ctx, run.userID)
	if err != nil {
		s.warn(ctx, run, newPipelineError(ErrFanout, StageFanningOut, err))
		return nil
	}
	if len(followers) == 0 {
		return nil
	}

	name, username, avatar := authorIdentity(run.author)
	job := &model.FanoutJob{
		Seed: uuid.NewString(),
		Post: model.PostSnapshot{
			ID:         run.post.ID,
			Title:      run.post.Title,
			CoverImage: run.post.CoverImage,
		},
		Sender: model.AuthorSnapshot{
			UserID:   run.userID,
			Name:     name,
			Username: username,
			Avatar:   avatar,
		},
		FollowerIDs: followers,
		PublishedAt: run.post.CreatedAt,
	}
	if err = s.dispatcher.Dispatch(ctx, job); err != nil {
		s.warn(ctx, run, newPipelineError(ErrFanout, StageFanningOut, err))
	}
	return nil
}

func (s *publishServiceImpl) warn(ctx context.Context, run *publishRun, pe *PipelineError) {
	log.WarnContext(ctx, "publish degraded", "stage", pe.Stage, "kind", pe.Kind.Error(), "ref", pe.Ref, "err", pe.Err)
	run.result.Warnings = append(run.result.Warnings, pe)
}

func (s *publishServiceImpl) releaseLock(ctx context.Context, run *publishRun) {
	if run.lockHeld == "" {
		return
	}
	if err := s.sessions.Unlock(context.WithoutCancel(ctx), run.userID, run.draft.SessionID, run.lockHeld); err != nil {
		log.WarnContext(ctx, "release publish lock failed", "err", err)
	}
}

func asPipelineError(err error, kind error, stage Stage) *PipelineError {
	if pe, ok := err.(*PipelineError); ok {
		return pe
	}
	return newPipelineError(kind, stage, err)
}

func authorIdentity(user *model.User) (name, username, avatar string) {
	return user.UserDetail.Nickname, user.Username, user.UserDetail.AvatarURL
}

func postIDOf(run *publishRun) uint64 {
	if run.post != nil {
		return run.post.ID
	}
	if run.draft != nil {
		return run.draft.PostID
	}
	return 0
}

// ToPublishResultDTO 转换为接口返回结构
func ToPublishResultDTO(r *PublishResult) *dto.PublishResultDTO {
	postDTO := &dto.PostDTO{}
	if err := copier.Copy(postDTO, r.Post); err != nil {
		log.Error("copier copy post failed", "err", err)
	}
	postDTO.CreatedAt = r.Post.CreatedAt.Format(time.DateTime)
	postDTO.UpdatedAt = r.Post.UpdatedAt.Format(time.DateTime)

	stages := make([]string, 0, len(r.Stages))
	for _, st := range r.Stages {
		stages = append(stages, string(st))
	}

	warnings := make([]*dto.PublishWarningDTO, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		msg := w.Kind.Error()
		if w.Err != nil {
			msg = w.Err.Error()
		}
		warnings = append(warnings, &dto.PublishWarningDTO{
			Kind:    w.Kind.Error(),
			Stage:   string(w.Stage),
			Ref:     w.Ref,
			Message: msg,
		})
	}

	return &dto.PublishResultDTO{
		Post:     postDTO,
		Stages:   stages,
		Degraded: r.Degraded(),
		Warnings: warnings,
	}
}
