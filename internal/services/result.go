package services

import (
	"fmt"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
)

// failure builds an error result whose kind is derived from err
func failure(message string, err error) *models.OperationResult {
	return models.Failure(database.Classify(err), fmt.Sprintf("%s: %s", message, err.Error()))
}
