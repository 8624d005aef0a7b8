package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TransferDaily/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	workflowsCollection = "workflows"
	sessionsCollection  = "admin_sessions"
)

// MongoRepository stores publishing workflows and admin sessions.
type MongoRepository struct {
	db         *mongo.Database
	workflows  *mongo.Collection
	sessions   *mongo.Collection
	sessionTTL time.Duration
}

func NewMongoRepository(client *mongo.Client, dbName string, sessionTTL time.Duration) (*MongoRepository, error) {
	db := client.Database(dbName)
	repo := &MongoRepository{
		db:         db,
		workflows:  db.Collection(workflowsCollection),
		sessions:   db.Collection(sessionsCollection),
		sessionTTL: sessionTTL,
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return repo, nil
}

func (r *MongoRepository) createIndexes(ctx context.Context) error {
	opts := options.CreateIndexes().SetMaxTime(10 * time.Second)

	workflowModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "article_id", Value: 1}},
			Options: options.Index().SetName("article_id_idx").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "translation.pending", Value: 1}, {Key: "updated_at", Value: 1}},
			Options: options.Index().SetName("translation_pending_idx"),
		},
	}
	if _, err := r.workflows.Indexes().CreateMany(ctx, workflowModels, opts); err != nil {
		return err
	}

	if r.sessionTTL <= 0 {
		return nil
	}
	sessionModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetName("updated_at_ttl_idx").SetExpireAfterSeconds(int32(r.sessionTTL.Seconds())),
		},
	}
	_, err := r.sessions.Indexes().CreateMany(ctx, sessionModels, opts)
	return err
}

// Ping checks the database connection.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

func (r *MongoRepository) GetWorkflow(ctx context.Context, articleID string) (*domain.WorkflowSession, error) {
	var w domain.WorkflowSession
	err := r.workflows.FindOne(ctx, bson.M{"article_id": articleID}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	return &w, nil
}

// SaveWorkflow replaces the whole document so cleared fields do not survive.
// The document id is the article id, which keeps concurrent upserts idempotent.
func (r *MongoRepository) SaveWorkflow(ctx context.Context, w *domain.WorkflowSession) error {
	if w.ID == "" {
		w.ID = w.ArticleID
	}
	filter := bson.M{"article_id": w.ArticleID}
	opts := options.Replace().SetUpsert(true)

	_, err := r.workflows.ReplaceOne(ctx, filter, w, opts)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race; the document exists now.
		_, err = r.workflows.ReplaceOne(ctx, filter, w, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}
	return nil
}

func (r *MongoRepository) SettleTranslation(ctx context.Context, articleID, jobID string, job domain.TranslationJob, at time.Time) error {
	filter := bson.M{"article_id": articleID, "translation.pending": true}
	if jobID != "" {
		filter["translation.job_id"] = jobID
	}
	update := bson.M{"$set": bson.M{"translation": job, "updated_at": at}}

	res, err := r.workflows.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to settle translation: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteWorkflow(ctx context.Context, articleID string) error {
	_, err := r.workflows.DeleteOne(ctx, bson.M{"article_id": articleID})
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}
	return nil
}

// PendingTranslations returns workflows waiting on a translation job, oldest first.
func (r *MongoRepository) PendingTranslations(ctx context.Context) ([]domain.WorkflowSession, error) {
	filter := bson.M{"translation.pending": true}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}})

	cursor, err := r.workflows.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			slog.Warn("Failed to close cursor", "error", err)
		}
	}()

	var results []domain.WorkflowSession
	for cursor.Next(ctx) {
		var w domain.WorkflowSession
		if err := cursor.Decode(&w); err != nil {
			slog.Warn("Skipping malformed workflow", "error", err)
			continue
		}
		results = append(results, w)
	}
	return results, cursor.Err()
}

func (r *MongoRepository) GetSession(ctx context.Context, id string) (*domain.AdminSession, error) {
	var s domain.AdminSession
	err := r.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &s, nil
}

func (r *MongoRepository) SaveSession(ctx context.Context, s *domain.AdminSession) error {
	filter := bson.M{"_id": s.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.sessions.ReplaceOne(ctx, filter, s, opts); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *MongoRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.sessions.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
