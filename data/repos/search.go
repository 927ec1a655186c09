package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
	"github.com/propertylabs/rental-radar-alerts-sub000/data"
	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
	"github.com/propertylabs/rental-radar-alerts-sub000/metrics"
)

const DefaultStorageTimeout = 10 * time.Second

const selectSearch = `
	SELECT s.id, s.user_id, s.name, s.notifications, s.created_at, s.updated_at,
		c.locations, c.property_types, c.min_bedrooms, c.max_bedrooms,
		c.min_price, c.max_price, c.must_haves
	FROM searches s
	JOIN search_criteria c ON c.search_id = s.id`

type SearchRepo struct {
	db      *sqlx.DB
	timeout time.Duration
	now     func() time.Time
}

func NewSearchRepo(db *sqlx.DB, timeout time.Duration) *SearchRepo {
	if timeout <= 0 {
		timeout = DefaultStorageTimeout
	}
	return &SearchRepo{db: db, timeout: timeout, now: time.Now}
}

// Create inserts the search and its criteria in one transaction. ID, owner and timestamps
// of the given search are assigned here.
func (r *SearchRepo) Create(ctx context.Context, ownerID string, search data.Search) (created data.Search, err error) {
	defer metrics.ObserveRepoOp("create", time.Now(), &err)

	if ownerID == "" {
		return data.Search{}, domain.NewUnauthenticatedError()
	}

	name, err := criteria.ValidateName(search.Name)
	if err != nil {
		return data.Search{}, err
	}
	c := criteria.Normalize(search.Criteria)
	if err = criteria.Validate(c); err != nil {
		return data.Search{}, err
	}

	now := r.now().Unix()
	created = data.Search{
		ID:            uuid.NewString(),
		UserID:        ownerID,
		Name:          name,
		Notifications: search.Notifications,
		CreatedAt:     now,
		UpdatedAt:     now,
		Criteria:      c,
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return data.Search{}, domain.NewPersistenceError(fmt.Errorf("create search: begin: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	// An owner nobody ever registered can't hold searches; retrying would not help.
	var owners int
	if err = tx.GetContext(ctx, &owners, tx.Rebind("SELECT COUNT(*) FROM users WHERE whop_user_id = ?"), ownerID); err != nil {
		return data.Search{}, domain.NewPersistenceError(fmt.Errorf("create search: find owner: %w", err))
	}
	if owners == 0 {
		return data.Search{}, domain.NewUnauthenticatedError()
	}

	query := `
		INSERT INTO searches (id, user_id, name, notifications, created_at, updated_at)
		VALUES (:id, :user_id, :name, :notifications, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, created); err != nil {
		return data.Search{}, domain.NewPersistenceError(fmt.Errorf("create search: %w", err))
	}

	query = `
		INSERT INTO search_criteria (search_id, locations, property_types, min_bedrooms, max_bedrooms, min_price, max_price, must_haves)
		VALUES (:search_id, :locations, :property_types, :min_bedrooms, :max_bedrooms, :min_price, :max_price, :must_haves)`
	row := data.SearchCriteriaRow{SearchID: created.ID, Criteria: c}
	if _, err = tx.NamedExecContext(ctx, query, row); err != nil {
		return data.Search{}, domain.NewPersistenceError(fmt.Errorf("create search criteria: %w", err))
	}

	if err = tx.Commit(); err != nil {
		return data.Search{}, domain.NewPersistenceError(fmt.Errorf("create search: commit: %w", err))
	}

	return created, nil
}

func (r *SearchRepo) ListByOwner(ctx context.Context, ownerID string) (searches []data.Search, err error) {
	defer metrics.ObserveRepoOp("list", time.Now(), &err)

	if ownerID == "" {
		return nil, domain.NewInvalidArgumentError("owner id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := r.db.Rebind(selectSearch + `
		WHERE s.user_id = ?
		ORDER BY s.created_at DESC, s.id DESC`)

	searches = make([]data.Search, 0)
	if err = r.db.SelectContext(ctx, &searches, query, ownerID); err != nil {
		return nil, domain.NewPersistenceError(fmt.Errorf("list searches by owner: %w", err))
	}

	return searches, nil
}

// Get returns a search the caller owns.
func (r *SearchRepo) Get(ctx context.Context, ownerID, searchID string) (search data.Search, err error) {
	defer metrics.ObserveRepoOp("get", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.getOwned(ctx, ownerID, searchID)
}

// UpdateFields changes only the fields present in the patch. Existence and ownership are
// checked before anything is written.
func (r *SearchRepo) UpdateFields(ctx context.Context, ownerID, searchID string, patch data.SearchPatch) (updated data.Search, err error) {
	defer metrics.ObserveRepoOp("update", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	current, err := r.getOwned(ctx, ownerID, searchID)
	if err != nil {
		return data.Search{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated = patch.Apply(current)
	if patch.Name != nil {
		if updated.Name, err = criteria.ValidateName(updated.Name); err != nil {
			return data.Search{}, err
		}
	}
	updated.Criteria = criteria.Normalize(updated.Criteria)
	if err = criteria.Validate(updated.Criteria); err != nil {
		return data.Search{}, err
	}
	updated.UpdatedAt = r.now().Unix()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return data.Search{}, domain.NewPersistenceError(fmt.Errorf("update search: begin: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	sets := []string{"updated_at = :updated_at"}
	if patch.Name != nil {
		sets = append(sets, "name = :name")
	}
	if patch.Notifications != nil {
		sets = append(sets, "notifications = :notifications")
	}
	query := "UPDATE searches SET " + strings.Join(sets, ", ") + " WHERE id = :id AND user_id = :user_id"
	if _, err = tx.NamedExecContext(ctx, query, updated); err != nil {
		return data.Search{}, domain.NewPersistenceError(fmt.Errorf("update search: %w", err))
	}

	if patch.TouchesCriteria() {
		query = "UPDATE search_criteria SET " + strings.Join(criteriaSets(patch), ", ") + " WHERE search_id = :search_id"
		row := data.SearchCriteriaRow{SearchID: updated.ID, Criteria: updated.Criteria}
		if _, err = tx.NamedExecContext(ctx, query, row); err != nil {
			return data.Search{}, domain.NewPersistenceError(fmt.Errorf("update search criteria: %w", err))
		}
	}

	if err = tx.Commit(); err != nil {
		return data.Search{}, domain.NewPersistenceError(fmt.Errorf("update search: commit: %w", err))
	}

	return updated, nil
}

// Delete removes the search and its criteria in one transaction.
func (r *SearchRepo) Delete(ctx context.Context, ownerID, searchID string) (err error) {
	defer metrics.ObserveRepoOp("delete", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err = r.getOwned(ctx, ownerID, searchID); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewPersistenceError(fmt.Errorf("delete search: begin: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM search_criteria WHERE search_id = ?"), searchID); err != nil {
		return domain.NewPersistenceError(fmt.Errorf("delete search criteria: %w", err))
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM searches WHERE id = ? AND user_id = ?"), searchID, ownerID); err != nil {
		return domain.NewPersistenceError(fmt.Errorf("delete search: %w", err))
	}

	if err = tx.Commit(); err != nil {
		return domain.NewPersistenceError(fmt.Errorf("delete search: commit: %w", err))
	}

	return nil
}

func (r *SearchRepo) getOwned(ctx context.Context, ownerID, searchID string) (data.Search, error) {
	if ownerID == "" {
		return data.Search{}, domain.NewUnauthenticatedError()
	}
	if _, err := uuid.Parse(searchID); err != nil {
		return data.Search{}, domain.NewInvalidArgumentError("malformed search id")
	}

	search, err := r.getByID(ctx, searchID)
	if err != nil {
		return data.Search{}, domain.NewPersistenceError(err)
	}
	if search == nil {
		return data.Search{}, domain.NewNotFoundError("search")
	}
	if search.UserID != ownerID {
		return data.Search{}, domain.NewForbiddenError()
	}

	return *search, nil
}

func (r *SearchRepo) getByID(ctx context.Context, searchID string) (*data.Search, error) {
	var search data.Search
	query := r.db.Rebind(selectSearch + " WHERE s.id = ?")

	err := r.db.GetContext(ctx, &search, query, searchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get search by id: %w", err)
	}

	return &search, nil
}

func criteriaSets(patch data.SearchPatch) []string {
	sets := make([]string, 0, 7)
	if patch.Locations != nil {
		sets = append(sets, "locations = :locations")
	}
	if patch.PropertyTypes != nil {
		sets = append(sets, "property_types = :property_types")
	}
	if patch.MinBedrooms != nil {
		sets = append(sets, "min_bedrooms = :min_bedrooms")
	}
	if patch.MaxBedrooms != nil {
		sets = append(sets, "max_bedrooms = :max_bedrooms")
	}
	if patch.MinPrice != nil {
		sets = append(sets, "min_price = :min_price")
	}
	if patch.MaxPrice != nil {
		sets = append(sets, "max_price = :max_price")
	}
	if patch.MustHaves != nil {
		sets = append(sets, "must_haves = :must_haves")
	}
	return sets
}
