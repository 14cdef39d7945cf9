package service

import (
	"github.com/salviega/sci-backend/internal/server"
)

type Services struct {
	Pin *PinService
}

func NewService(s *server.Server) (*Services, error) {
	pinService := NewPinService(s)

	return &Services{
		Pin: pinService,
	}, nil
}
