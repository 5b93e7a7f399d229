package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dkeye/Collab/internal/core"
	"github.com/dkeye/Collab/internal/domain"
)

// ProjectRepository and UserRepository hold the read models the gateway
// checks against. Writes come from the seed tool or the CRUD side.
type ProjectRepository struct {
	db *badger.DB
}

var _ core.ProjectStore = ProjectRepository{}

func NewProjectRepository(db *badger.DB) ProjectRepository {
	return ProjectRepository{db: db}
}

func projectKey(id domain.RoomID) []byte { return []byte("prj:" + segment(string(id))) }

func (r ProjectRepository) GetProject(_ context.Context, id domain.RoomID) (domain.Project, error) {
	var p domain.Project
	err := r.db.View(func(txn *badger.Txn) error { return get(txn, projectKey(id), &p) })
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("get project %s: %w", id, err)
	}
	return p, nil
}

func (r ProjectRepository) PutProject(_ context.Context, p domain.Project) error {
	if err := r.db.Update(func(txn *badger.Txn) error { return set(txn, projectKey(p.ID), p) }); err != nil {
		return fmt.Errorf("put project %s: %w", p.ID, err)
	}
	return nil
}

type UserRepository struct {
	db *badger.DB
}

var _ core.UserDirectory = UserRepository{}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

func userKey(id domain.UserID) []byte { return []byte("usr:" + segment(string(id))) }

func (r UserRepository) GetUser(_ context.Context, id domain.UserID) (domain.User, error) {
	var u domain.User
	err := r.db.View(func(txn *badger.Txn) error { return get(txn, userKey(id), &u) })
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (r UserRepository) PutUser(_ context.Context, u domain.User) error {
	if err := r.db.Update(func(txn *badger.Txn) error { return set(txn, userKey(u.ID), u) }); err != nil {
		return fmt.Errorf("put user %s: %w", u.ID, err)
	}
	return nil
}
