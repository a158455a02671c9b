package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// postSelect joins the author projection; sqlx maps the dotted aliases onto Post.Author.
const postSelect = `
	SELECT p.id, p.title, p.content, p.category, p.cover_image, p.author_id,
	       p.created_at, p.updated_at,
	       u.id AS "author.id", u.name AS "author.name", u.profile_picture AS "author.profile_picture"
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// PostgresPostStore implements the store.PostStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPostStore creates a new PostgreSQL implementation of the PostStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPostStore(db store.DBTX, logger *slog.Logger) *PostgresPostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPostStore{
		db:     db,
		logger: logger.With(slog.String("component", "post_store")),
	}
}

// Ensure PostgresPostStore implements store.PostStore interface
var _ store.PostStore = (*PostgresPostStore)(nil)

// Create implements store.PostStore.Create
// Returns store.ErrForeignKey if the author does not exist.
func (s *PostgresPostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during create",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return err
	}

	query := `
		INSERT INTO posts (id, title, content, category, cover_image, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.Category,
		post.CoverImage,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during post creation",
				slog.String("post_id", post.ID.String()),
				slog.String("author_id", post.AuthorID.String()))
			return fmt.Errorf("%w: author with ID %s not found", store.ErrForeignKey, post.AuthorID)
		}
		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return MapError(err)
	}

	log.Info("post created successfully",
		slog.String("post_id", post.ID.String()),
		slog.String("author_id", post.AuthorID.String()),
		slog.String("category", string(post.Category)))
	return nil
}

// GetByID implements store.PostStore.GetByID
// Returns store.ErrPostNotFound if the post does not exist.
func (s *PostgresPostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var post domain.Post
	if err := sqlx.GetContext(ctx, s.db, &post, postSelect+` WHERE p.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("post not found", slog.String("post_id", id.String()))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to get post by ID",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return nil, MapError(err)
	}
	return &post, nil
}

// Update implements store.PostStore.Update
func (s *PostgresPostStore) Update(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during update",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return err
	}

	query := `
		UPDATE posts
		SET title = $1, content = $2, category = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		post.Title, post.Content, post.Category, post.UpdatedAt, post.ID)
	if err != nil {
		log.Error("failed to update post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPostNotFound); err != nil {
		return err
	}

	log.Info("post updated", slog.String("post_id", post.ID.String()))
	return nil
}

// UpdateCoverImage implements store.PostStore.UpdateCoverImage
func (s *PostgresPostStore) UpdateCoverImage(ctx context.Context, id uuid.UUID, filename string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE posts SET cover_image = $1, updated_at = NOW() WHERE id = $2`, filename, id)
	if err != nil {
		log.Error("failed to update cover image",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPostNotFound); err != nil {
		return err
	}

	log.Info("cover image updated",
		slog.String("post_id", id.String()),
		slog.String("filename", filename))
	return nil
}

// Delete implements store.PostStore.Delete
// Saved relations are removed by ON DELETE CASCADE.
func (s *PostgresPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPostNotFound); err != nil {
		return err
	}

	log.Info("post deleted", slog.String("post_id", id.String()))
	return nil
}

// FindAndCount implements store.PostStore.FindAndCount
func (s *PostgresPostStore) FindAndCount(ctx context.Context, q store.PostQuery) ([]domain.Post, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	from, where, args := buildPostFilter(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p` + from + where
	if err := sqlx.GetContext(ctx, s.db, &total, countQuery, args...); err != nil {
		log.Error("failed to count posts", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	direction := "DESC"
	if q.Order == domain.OrderAsc {
		direction = "ASC"
	}
	pageArgs := append(args, q.Limit, q.Offset)
	pageQuery := fmt.Sprintf(`%s%s%s ORDER BY p.created_at %s, p.id %s LIMIT $%d OFFSET $%d`,
		postSelect, from, where, direction, direction, len(args)+1, len(args)+2)

	posts := []domain.Post{}
	if err := sqlx.SelectContext(ctx, s.db, &posts, pageQuery, pageArgs...); err != nil {
		log.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	log.Debug("posts listed",
		slog.Int("count", len(posts)),
		slog.Int("total", total))
	return posts, total, nil
}

// buildPostFilter returns the extra joins, the WHERE clause and its arguments.
func buildPostFilter(q store.PostQuery) (string, string, []any) {
	var (
		from       string
		conditions []string
		args       []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.SavedBy != uuid.Nil {
		from = ` JOIN user_saved_posts sp ON sp.post_id = p.id AND sp.user_id = ` + next(q.SavedBy)
	}
	if q.Category != "" {
		conditions = append(conditions, `p.category = `+next(q.Category))
	}
	if q.TitleContains != "" {
		conditions = append(conditions, `p.title ILIKE `+next("%"+EscapeLike(q.TitleContains)+"%")+` ESCAPE '\'`)
	}
	if q.AuthorID != uuid.Nil {
		conditions = append(conditions, `p.author_id = `+next(q.AuthorID))
	}

	if len(conditions) == 0 {
		return from, "", args
	}
	return from, " WHERE " + strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FindRelated implements store.PostStore.FindRelated
func (s *PostgresPostStore) FindRelated(
	ctx context.Context,
	exclude uuid.UUID,
	category domain.Category,
	limit int,
) ([]domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := postSelect + `
		WHERE p.category = $1 AND p.id <> $2
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3`

	posts := []domain.Post{}
	if err := sqlx.SelectContext(ctx, s.db, &posts, query, category, exclude, limit); err != nil {
		log.Error("failed to find related posts",
			slog.String("error", err.Error()),
			slog.String("post_id", exclude.String()))
		return nil, MapError(err)
	}
	return posts, nil
}

// WithTx implements store.PostStore.WithTx
func (s *PostgresPostStore) WithTx(tx *sqlx.Tx) store.PostStore {
	return &PostgresPostStore{
		db:     tx,
		logger: s.logger,
	}
}
