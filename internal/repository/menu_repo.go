package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/storage"
	"go.uber.org/zap"
)

const (
	menuItemsCollection  = "menu_items"
	categoriesCollection = "categories"
	usersCollection      = "users"
)

type MenuRepository struct {
	db storage.Store
	l  *zap.Logger
}

func NewMenuRepository(db storage.Store, l *zap.Logger) *MenuRepository {
	return &MenuRepository{
		db: db,
		l:  l,
	}
}

func (r *MenuRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.Insert(ctx, categoriesCollection, category.ID, category); err != nil {
		return fmt.Errorf("repository: database insert error: %w", err)
	}
	return nil
}

func (r *MenuRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Find(ctx, categoriesCollection, nil, &categories); err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return categories, nil
}

func (r *MenuRepository) DeleteCategory(ctx context.Context, id string) error {
	deleted, err := r.db.Delete(ctx, categoriesCollection, storage.Filter{"id": id})
	if err != nil {
		return fmt.Errorf("repository: database delete error: %w", err)
	}
	if deleted == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

func (r *MenuRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.Insert(ctx, menuItemsCollection, item.ID, item); err != nil {
		return fmt.Errorf("repository: database insert error: %w", err)
	}
	return nil
}

// ListMenuItems returns available items, optionally limited to one category.
func (r *MenuRepository) ListMenuItems(ctx context.Context, category string) ([]models.MenuItem, error) {
	filter := storage.Filter{"is_available": true}
	if category != "" {
		filter["category"] = category
	}
	var items []models.MenuItem
	if err := r.db.Find(ctx, menuItemsCollection, filter, &items); err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return items, nil
}

func (r *MenuRepository) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.FindOne(ctx, menuItemsCollection, storage.Filter{"id": id}, &item)
	if errors.Is(err, storage.ErrNotFound) {
		r.l.Debug("menu item not found", zap.String("id", id))
		return nil, models.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return &item, nil
}

func (r *MenuRepository) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	err := r.db.Replace(ctx, menuItemsCollection, item.ID, item)
	if errors.Is(err, storage.ErrNotFound) {
		return models.ErrMenuItemNotFound
	}
	if err != nil {
		return fmt.Errorf("repository: database replace error: %w", err)
	}
	return nil
}

func (r *MenuRepository) DeleteMenuItem(ctx context.Context, id string) error {
	deleted, err := r.db.Delete(ctx, menuItemsCollection, storage.Filter{"id": id})
	if err != nil {
		return fmt.Errorf("repository: database delete error: %w", err)
	}
	if deleted == 0 {
		return models.ErrMenuItemNotFound
	}
	return nil
}

func (r *MenuRepository) CreateUser(ctx context.Context, user *models.User) error {
	existing, err := r.db.Count(ctx, usersCollection, storage.Filter{"email": user.Email})
	if err != nil {
		return fmt.Errorf("repository: database count error: %w", err)
	}
	if existing > 0 {
		r.l.Debug("user already exists", zap.String("email", user.Email))
		return models.ErrUserExists
	}
	if err := r.db.Insert(ctx, usersCollection, user.ID, user); err != nil {
		return fmt.Errorf("repository: database insert error: %w", err)
	}
	return nil
}

func (r *MenuRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(ctx, usersCollection, nil, &users); err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return users, nil
}
