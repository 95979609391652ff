// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists projects and their articles in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// ErrNotFound is returned when a project or article id does not exist.
var ErrNotFound = errors.New("not found")

// Store manages the SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func New(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			keyword TEXT NOT NULL,
			base_url TEXT NOT NULL,
			genre TEXT,
			location TEXT,
			manual_keywords TEXT,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL REFERENCES projects(id),
			title TEXT NOT NULL,
			content TEXT,
			outline TEXT,
			review TEXT,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_keyword ON projects(keyword)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_project_id ON articles(project_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// CreateProject inserts p with status PENDING and returns the stored row.
// An empty location defaults to types.DefaultLocation.
func (s *Store) CreateProject(ctx context.Context, p types.Project) (types.Project, error) {
	if p.Location == "" {
		p.Location = types.DefaultLocation
	}
	p.Status = types.ProjectPending

	var keywords []byte
	if len(p.ManualKeywords) > 0 {
		var err error
		if keywords, err = json.Marshal(p.ManualKeywords); err != nil {
			return types.Project{}, fmt.Errorf("encoding manual keywords: %w", err)
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, keyword, base_url, genre, location, manual_keywords, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Keyword, p.BaseURL, p.Genre, p.Location, string(keywords), string(p.Status), s.timestamp())
	if err != nil {
		return types.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Project{}, fmt.Errorf("reading project id: %w", err)
	}
	return s.GetProject(ctx, id)
}

const projectColumns = `id, name, keyword, base_url, genre, location, manual_keywords, status, created_at, updated_at`

// GetProject returns the project with the given id or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id int64) (types.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return p, err
}

// ListProjects returns every project, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProjectStatus sets a project's status.
func (s *Store) UpdateProjectStatus(ctx context.Context, id int64, status types.ProjectStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`, string(status), s.timestamp(), id)
	if err != nil {
		return fmt.Errorf("updating project status: %w", err)
	}
	return expectOne(res, "project", id)
}

// CreateArticle inserts a for its project with status DRAFT unless a status
// is already set.
func (s *Store) CreateArticle(ctx context.Context, a types.Article) (types.Article, error) {
	if a.Status == "" {
		a.Status = types.ArticleDraft
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (project_id, title, content, outline, review, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ProjectID, a.Title, a.Content, a.Outline, a.Review, string(a.Status), s.timestamp())
	if err != nil {
		return types.Article{}, fmt.Errorf("inserting article: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Article{}, fmt.Errorf("reading article id: %w", err)
	}
	return s.GetArticle(ctx, id)
}

const articleColumns = `id, project_id, title, content, outline, review, status, created_at, updated_at`

// CompleteOutline stores the DRAFT article holding a project's outline and
// marks the project COMPLETED in one transaction. On error neither write is
// kept.
func (s *Store) CompleteOutline(ctx context.Context, a types.Article) (types.Article, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Article{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO articles (project_id, title, content, outline, review, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ProjectID, a.Title, a.Content, a.Outline, a.Review, string(types.ArticleDraft), now)
	if err != nil {
		return types.Article{}, fmt.Errorf("inserting article: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Article{}, fmt.Errorf("reading article id: %w", err)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		string(types.ProjectCompleted), now, a.ProjectID)
	if err != nil {
		return types.Article{}, fmt.Errorf("updating project status: %w", err)
	}
	if err := expectOne(res, "project", a.ProjectID); err != nil {
		return types.Article{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Article{}, fmt.Errorf("committing outline: %w", err)
	}
	return s.GetArticle(ctx, id)
}

// GetArticle returns the article with the given id or ErrNotFound.
func (s *Store) GetArticle(ctx context.Context, id int64) (types.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Article{}, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return a, err
}

// ArticleForProject returns the first article created for a project.
func (s *Store) ArticleForProject(ctx context.Context, projectID int64) (types.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE project_id = ? ORDER BY id LIMIT 1`, projectID)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Article{}, fmt.Errorf("article for project %d: %w", projectID, ErrNotFound)
	}
	return a, err
}

// UpdateArticle writes title, content, review, and status in one statement.
func (s *Store) UpdateArticle(ctx context.Context, a types.Article) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET title = ?, content = ?, review = ?, status = ?, updated_at = ? WHERE id = ?`,
		a.Title, a.Content, a.Review, string(a.Status), s.timestamp(), a.ID)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}
	return expectOne(res, "article", a.ID)
}

// UpdateArticleStatus sets only an article's status.
func (s *Store) UpdateArticleStatus(ctx context.Context, id int64, status types.ArticleStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET status = ?, updated_at = ? WHERE id = ?`, string(status), s.timestamp(), id)
	if err != nil {
		return fmt.Errorf("updating article status: %w", err)
	}
	return expectOne(res, "article", id)
}

func expectOne(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s update: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(sc scanner) (types.Project, error) {
	var (
		p                                    types.Project
		genre, location, keywords, updatedAt sql.NullString
		status, createdAt                    string
	)
	if err := sc.Scan(&p.ID, &p.Name, &p.Keyword, &p.BaseURL, &genre, &location, &keywords, &status, &createdAt, &updatedAt); err != nil {
		return types.Project{}, err
	}
	p.Genre = genre.String
	p.Location = location.String
	p.Status = types.ProjectStatus(status)
	if keywords.String != "" {
		if err := json.Unmarshal([]byte(keywords.String), &p.ManualKeywords); err != nil {
			return types.Project{}, fmt.Errorf("decoding manual keywords: %w", err)
		}
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt.String)
	return p, nil
}

func scanArticle(sc scanner) (types.Article, error) {
	var (
		a                                   types.Article
		content, outline, review, updatedAt sql.NullString
		status, createdAt                   string
	)
	if err := sc.Scan(&a.ID, &a.ProjectID, &a.Title, &content, &outline, &review, &status, &createdAt, &updatedAt); err != nil {
		return types.Article{}, err
	}
	a.Content = content.String
	a.Outline = outline.String
	a.Review = review.String
	a.Status = types.ArticleStatus(status)
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt.String)
	return a, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
