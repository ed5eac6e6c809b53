package hallRepo

import "hallbook/models"

// HallRepository defines methods for hall data access.
type HallRepository interface {
	// GetByID retrieves a hall by its unique ID.
	GetByID(id string) (*models.Hall, error)
	// GetAll retrieves all halls.
	GetAll() ([]models.Hall, error)
	// Create inserts a new hall record.
	Create(hall *models.Hall) error
	// Update modifies an existing hall record.
	Update(hall *models.Hall) error
}
