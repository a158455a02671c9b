package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresSavedPostStore implements the store.SavedPostStore interface
// on the user_saved_posts join table.
type PostgresSavedPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSavedPostStore creates a new PostgreSQL implementation of the SavedPostStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSavedPostStore(db store.DBTX, logger *slog.Logger) *PostgresSavedPostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSavedPostStore{
		db:     db,
		logger: logger.With(slog.String("component", "saved_post_store")),
	}
}

// Ensure PostgresSavedPostStore implements store.SavedPostStore interface
var _ store.SavedPostStore = (*PostgresSavedPostStore)(nil)

// Exists implements store.SavedPostStore.Exists
func (s *PostgresSavedPostStore) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_saved_posts WHERE user_id = $1 AND post_id = $2)`
	if err := sqlx.GetContext(ctx, s.db, &exists, query, userID, postID); err != nil {
		log.Error("failed to check saved post",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("post_id", postID.String()))
		return false, MapError(err)
	}
	return exists, nil
}

// Add implements store.SavedPostStore.Add
// Returns store.ErrAlreadySaved on a primary key conflict and store.ErrForeignKey
// when the user or post has been removed.
func (s *PostgresSavedPostStore) Add(ctx context.Context, userID, postID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_saved_posts (user_id, post_id) VALUES ($1, $2)`, userID, postID)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			log.Debug("post already saved",
				slog.String("user_id", userID.String()),
				slog.String("post_id", postID.String()))
			return MapUniqueViolation(err, store.ErrAlreadySaved)
		case IsForeignKeyViolation(err):
			log.Warn("foreign key violation while saving post",
				slog.String("user_id", userID.String()),
				slog.String("post_id", postID.String()))
			return fmt.Errorf("%w: user or post missing", store.ErrForeignKey)
		}
		log.Error("failed to save post",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("post_id", postID.String()))
		return MapError(err)
	}

	log.Info("post saved",
		slog.String("user_id", userID.String()),
		slog.String("post_id", postID.String()))
	return nil
}

// Remove implements store.SavedPostStore.Remove
func (s *PostgresSavedPostStore) Remove(ctx context.Context, userID, postID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_saved_posts WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		log.Error("failed to unsave post",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("post_id", postID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrSavedPostNotFound); err != nil {
		return err
	}

	log.Info("post unsaved",
		slog.String("user_id", userID.String()),
		slog.String("post_id", postID.String()))
	return nil
}

// WithTx implements store.SavedPostStore.WithTx
func (s *PostgresSavedPostStore) WithTx(tx *sqlx.Tx) store.SavedPostStore {
	return &PostgresSavedPostStore{
		db:     tx,
		logger: s.logger,
	}
}
