package repository

import (
	"github.com/paynudge/paynudge/app/models"
	"gorm.io/gorm"
)

// clientRepository implements the ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client in the database
func (r *clientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID retrieves a client by ID, scoped to its owner
func (r *clientRepository) GetByID(id uint, userID uint) (*models.Client, error) {
	var client models.Client
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ListByUser retrieves all clients belonging to a user
func (r *clientRepository) ListByUser(userID uint) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&clients).Error
	return clients, err
}

// Update updates an existing client
func (r *clientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete soft deletes a client, scoped to its owner
func (r *clientRepository) Delete(id uint, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Client{}).Error
}

// CountByUser returns the number of clients a user owns
func (r *clientRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
