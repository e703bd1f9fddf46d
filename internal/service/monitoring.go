package service

import (
	"context"

	"reflow_oven/internal/models"
)

type MonitoringService struct {
	plant *Plant
}

func NewMonitoringService(plant *Plant) *MonitoringService {
	return &MonitoringService{plant: plant}
}

// GetStatus returns a live snapshot of the oven.
func (s *MonitoringService) GetStatus(ctx context.Context) (models.OvenStatus, error) {
	if err := ctx.Err(); err != nil {
		return models.OvenStatus{}, err
	}
	return s.plant.Status(), nil
}
