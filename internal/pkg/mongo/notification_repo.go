package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBatchAlreadyCommitted 批次中的记录 ID 已存在，说明同一批次此前已整体提交
var ErrBatchAlreadyCommitted = errors.New("notification batch already committed")

type NotificationRepo interface {
	// BatchCreate 在一个事务内写入全部记录，要么全部成功要么全部失败
	BatchCreate(ctx context.Context, records []*NotificationModel) error
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection("notifications"),
	}
}

// BatchCreate 多文档事务插入，需要副本集
func (s *notificationRepoImpl) BatchCreate(ctx context.Context, records []*NotificationModel) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}

	session, err := s.col.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return s.col.InsertMany(sc, docs, options.InsertMany().SetOrdered(true))
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrBatchAlreadyCommitted
	}
	return err
}

// EnsureIndexes 收件箱按接收者倒序读取
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
