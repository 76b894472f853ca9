package mongodb

import (
	"context"
	"fmt"
	"time"

	"cah-online/internal/auth/domain/model"
	"cah-online/internal/auth/domain/repository"
	"cah-online/internal/shared/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultOperationTimeout bounds every call to the store.
const DefaultOperationTimeout = 2 * time.Second

var _ repository.SessionRepository = (*MongoSessionRepository)(nil)

// MongoSessionRepository implements the SessionRepository interface using MongoDB
type MongoSessionRepository struct {
	db                 *mongo.Database
	sessionsCollection *mongo.Collection
	tokens             repository.TokenGenerator
	timeout            time.Duration
	now                func() time.Time
}

// Option configures a MongoSessionRepository.
type Option func(*MongoSessionRepository)

// WithOperationTimeout overrides DefaultOperationTimeout. Non-positive values are ignored.
func WithOperationTimeout(d time.Duration) Option {
	return func(r *MongoSessionRepository) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithClock sets the clock used to stamp new sessions.
func WithClock(now func() time.Time) Option {
	return func(r *MongoSessionRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewMongoSessionRepository creates a new MongoDB session repository.
// Indexes are created separately by EnsureIndexes.
func NewMongoSessionRepository(db *mongo.Database, tokens repository.TokenGenerator, opts ...Option) *MongoSessionRepository {
	repo := &MongoSessionRepository{
		db:                 db,
		sessionsCollection: database.Collection[model.Session](db),
		tokens:             tokens,
		timeout:            DefaultOperationTimeout,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// EnsureIndexes creates the token lookup index. It is not unique: collisions
// are ruled out by token entropy, not by the store.
func (r *MongoSessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "token", Value: 1}},
	}
	if _, err := r.sessionsCollection.Indexes().CreateOne(ctx, tokenIndex); err != nil {
		return database.StoreFailure("create-index", r.sessionsCollection.Name(), err)
	}
	return nil
}

// Create stores a new session for username and returns it as persisted.
func (r *MongoSessionRepository) Create(ctx context.Context, username, ipAddress, userAgent string) (*model.Session, error) {
	token, err := r.tokens.Generate()
	if err != nil {
		return nil, database.StoreFailure("generate-token", r.sessionsCollection.Name(), err)
	}

	session, err := model.NewSession(token, username, ipAddress, userAgent, r.now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.sessionsCollection.InsertOne(ctx, session)
	if err != nil {
		return nil, database.StoreFailure("insert", r.sessionsCollection.Name(), err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, database.StoreFailure("insert", r.sessionsCollection.Name(),
			fmt.Errorf("unexpected inserted id type %T", res.InsertedID))
	}

	stored, err := database.FindByID[model.Session](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, database.StoreFailure("find", r.sessionsCollection.Name(), repository.ErrSessionNotPersisted)
	}
	return stored, nil
}

// FindByID retrieves a session by its store id.
func (r *MongoSessionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return database.FindByID[model.Session](ctx, r.db, id)
}

// FindByToken retrieves the session carrying token.
func (r *MongoSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return database.FindOne[model.Session](ctx, r.db, bson.M{"token": token})
}

// Revoke flags the session as revoked in the store and on the passed value.
func (r *MongoSessionRepository) Revoke(ctx context.Context, session *model.Session) error {
	if session == nil || !session.IsPersisted() {
		return repository.ErrSessionNotPersisted
	}
	if session.Revoked {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.sessionsCollection.UpdateOne(ctx,
		bson.M{"_id": session.ID},
		bson.M{"$set": bson.M{"revoked": true}},
	)
	if err != nil {
		return database.StoreFailure("update", r.sessionsCollection.Name(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrSessionNotPersisted
	}

	session.Revoked = true
	return nil
}
