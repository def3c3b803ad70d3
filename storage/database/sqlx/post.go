package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/ratiba/core/post"
)

type postRepository struct {
	db *sqlx.DB
}

var _ post.Repository = (*postRepository)(nil) // interface compliance check

func NewPostRepository(db *sql.DB) post.Repository {
	return &postRepository{db: sqlx.NewDb(db, "postgres")}
}

// postRow mirrors the post table; nullable columns use null.* types.
type postRow struct {
	ID           string         `db:"id"`
	Type         string         `db:"type"`
	Title        string         `db:"title"`
	Body         string         `db:"body"`
	AuthorID     string         `db:"author_id"`
	AuthorName   string         `db:"author_name"`
	AuthorEmail  null.String    `db:"author_email"`
	AuthorRoles  pq.StringArray `db:"author_roles"`
	ClassIDs     pq.StringArray `db:"class_ids"`
	StartAt      null.Time      `db:"start_at"`
	EndAt        null.Time      `db:"end_at"`
	DueAt        null.Time      `db:"due_at"`
	AllDay       bool           `db:"all_day"`
	Location     null.String    `db:"location"`
	Weight       null.Float64   `db:"weight"`
	PublishState string         `db:"publish_state"`
	RepeatRule   null.String    `db:"repeat_rule"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func toRow(p post.Post) postRow {
	row := postRow{
		ID:           p.ID,
		Type:         string(p.Type),
		Title:        p.Title,
		Body:         p.Body,
		AuthorID:     p.AuthorID,
		AuthorName:   p.AuthorName,
		AuthorEmail:  null.NewString(p.AuthorEmail, p.AuthorEmail != ""),
		AuthorRoles:  pq.StringArray(p.AuthorRoles),
		ClassIDs:     pq.StringArray(p.ClassIDs),
		AllDay:       p.AllDay,
		Location:     null.NewString(p.Location, p.Location != ""),
		Weight:       null.Float64FromPtr(p.Weight),
		PublishState: string(p.PublishState),
		RepeatRule:   null.NewString(p.RepeatRule, p.RepeatRule != ""),
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
	row.StartAt = nullTimeFromPtr(p.StartAt)
	row.EndAt = nullTimeFromPtr(p.EndAt)
	row.DueAt = nullTimeFromPtr(p.DueAt)
	return row
}

func (row postRow) toPost() post.Post {
	return post.Post{
		ID:           row.ID,
		Type:         post.Type(row.Type),
		Title:        row.Title,
		Body:         row.Body,
		AuthorID:     row.AuthorID,
		AuthorName:   row.AuthorName,
		AuthorEmail:  row.AuthorEmail.String,
		AuthorRoles:  []string(row.AuthorRoles),
		ClassIDs:     []string(row.ClassIDs),
		StartAt:      ptrFromNullTime(row.StartAt),
		EndAt:        ptrFromNullTime(row.EndAt),
		DueAt:        ptrFromNullTime(row.DueAt),
		AllDay:       row.AllDay,
		Location:     row.Location.String,
		Weight:       row.Weight.Ptr(),
		PublishState: post.PublishState(row.PublishState),
		RepeatRule:   row.RepeatRule.String,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func nullTimeFromPtr(t *time.Time) null.Time {
	if t == nil {
		return null.Time{}
	}
	return null.TimeFrom(t.UTC())
}

func ptrFromNullTime(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

const postColumns = `id, type, title, body, author_id, author_name, author_email, author_roles, class_ids,
	start_at, end_at, due_at, all_day, location, weight, publish_state, repeat_rule, created_at, updated_at`

func (repo *postRepository) CreatePost(p post.Post) (post.Post, error) {
	row := toRow(p)
	_, err := repo.db.NamedExec(`
		INSERT INTO post (`+postColumns+`)
		VALUES (:id, :type, :title, :body, :author_id, :author_name, :author_email, :author_roles, :class_ids,
			:start_at, :end_at, :due_at, :all_day, :location, :weight, :publish_state, :repeat_rule, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "inserting post")
	}
	return p, nil
}

func (repo *postRepository) GetPostByID(id string) (post.Post, error) {
	var row postRow
	err := repo.db.Get(&row, `SELECT `+postColumns+` FROM post WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return post.Post{}, post.ErrNotFound
	}
	if err != nil {
		return post.Post{}, errors.Wrap(err, "getting post")
	}
	return row.toPost(), nil
}

func (repo *postRepository) QueryAllPosts() ([]post.Post, error) {
	var rows []postRow
	if err := repo.db.Select(&rows, `SELECT `+postColumns+` FROM post ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	return toPosts(rows), nil
}

func (repo *postRepository) FilterPosts(filter post.QueryFilter) ([]post.Post, error) {
	where := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.From.IsZero() {
		// keep repeating posts visible past their base instant
		where = append(where, fmt.Sprintf(
			"(COALESCE(due_at, start_at) >= %s OR repeat_rule IS NOT NULL)", arg(filter.From.UTC())))
	}
	if !filter.To.IsZero() {
		where = append(where, fmt.Sprintf("COALESCE(due_at, start_at) <= %s", arg(filter.To.UTC())))
	}
	if filter.Types != nil {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		where = append(where, fmt.Sprintf("type = ANY(%s)", arg(pq.StringArray(types))))
	}
	if filter.ClassIDs != nil {
		where = append(where, fmt.Sprintf(
			"(class_ids IS NULL OR cardinality(class_ids) = 0 OR class_ids && %s)", arg(pq.StringArray(filter.ClassIDs))))
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("title ILIKE %s", arg("%"+filter.Search+"%")))
	}

	query := `SELECT ` + postColumns + ` FROM post`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY COALESCE(due_at, start_at), title`

	var rows []postRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering posts")
	}
	return toPosts(rows), nil
}

func (repo *postRepository) UpdatePost(p post.Post) (post.Post, error) {
	row := toRow(p)
	res, err := repo.db.NamedExec(`
		UPDATE post SET
			type = :type, title = :title, body = :body, class_ids = :class_ids,
			start_at = :start_at, end_at = :end_at, due_at = :due_at, all_day = :all_day,
			location = :location, weight = :weight, publish_state = :publish_state,
			repeat_rule = :repeat_rule, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "updating post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return post.Post{}, post.ErrNotFound
	}
	return p, nil
}

func (repo *postRepository) UpdatePostSchedule(id string, change post.ScheduleChange) (post.Post, error) {
	set := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if change.StartAt != nil {
		set = append(set, "start_at = "+arg(change.StartAt.UTC()))
	}
	if change.EndAt != nil {
		set = append(set, "end_at = "+arg(change.EndAt.UTC()))
	}
	if change.DueAt != nil {
		set = append(set, "due_at = "+arg(change.DueAt.UTC()))
	}
	if len(set) == 0 {
		return repo.GetPostByID(id)
	}
	set = append(set, "updated_at = "+arg(time.Now().UTC()))

	query := `UPDATE post SET ` + strings.Join(set, ", ") + ` WHERE id = ` + arg(id)
	res, err := repo.db.Exec(query, args...)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "updating post schedule")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return post.Post{}, post.ErrNotFound
	}
	return repo.GetPostByID(id)
}

func (repo *postRepository) DeletePostsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.Exec(`DELETE FROM post WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting posts")
	}
	return nil
}

func toPosts(rows []postRow) []post.Post {
	posts := make([]post.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toPost())
	}
	return posts
}
