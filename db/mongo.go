package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"post-board/internal/logger"
	"post-board/config"
)

// ErrClosed 는 Close 이후 Database 를 요청했을 때 반환된다.
var ErrClosed = errors.New("mongo handle closed")

// Mongo is a lazily connected database handle.
// 첫 Database 호출 시 한 번만 연결/Ping/인덱스 생성을 수행하고,
// 실패하면 다음 호출에서 다시 시도한다.
type Mongo struct {
	cfg config.MongoConfig

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
	closed bool
}

func New(cfg config.MongoConfig) *Mongo {
	return &Mongo{cfg: cfg}
}

// Database returns the connected database, connecting on first use.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.db != nil {
		return m.db, nil
	}

	d, cl, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	m.client = cl
	m.db = d
	return d, nil
}

func (m *Mongo) connect(ctx context.Context) (*mongo.Database, *mongo.Client, error) {
	const op = "db.Mongo.connect"

	ctx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(m.cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: connect: %w", op, err)
	}
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	d := cl.Database(m.cfg.Database)
	if err := ensureIndexes(ctx, d); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("%s: indexes: %w", op, err)
	}

	logger.InfoWithFields("MongoDB connected and indexes ensured", logger.Fields{
		"database": m.cfg.Database,
	})
	return d, cl, nil
}

// Ping 은 /health 에서 사용한다. 아직 연결 전이면 연결을 시도한다.
func (m *Mongo) Ping(ctx context.Context) error {
	d, err := m.Database(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.Client().Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	// users: unique username
	if _, err := d.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("uniq_username").SetUnique(true),
	}); err != nil {
		return err
	}

	// posts: created_at desc (list order)
	if _, err := d.Collection("posts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_created_at_desc"),
	}); err != nil {
		return err
	}

	// activity: 이벤트 중복 기록 방지, 대상별 조회
	if _, err := d.Collection("activity").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetName("uniq_event_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "subject_id", Value: 1}, {Key: "occurred_at", Value: -1}},
			Options: options.Index().SetName("idx_subject_occurred_at"),
		},
	}); err != nil {
		return err
	}
	return nil
}
