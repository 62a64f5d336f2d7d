package language

import (
	"context"
	"log/slog"

	"github.com/zgbooks/books-api/internal/platform/validate"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListLanguages(context context.Context) ([]*Language, error) {
	return service.repo.ListLanguages(context)
}

func (service *Service) GetLanguage(context context.Context, code string) (*Language, error) {
	validator := &validate.Validator{}
	validator.LanguageCode("code", code)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.GetLanguageByCode(context, code)
}
