package user

import (
	"fmt"

	domain "drive-me-local/internal/domain/user"
)

func fromDBModel(model *User) (*domain.User, error) {
	role, err := domain.ParseRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", model.ID, err)
	}

	var u = &domain.User{
		ID:           domain.ID(model.ID),
		Username:     model.Username,
		PasswordHash: model.PasswordHash,
		Role:         role,

		CreatedAt: model.CreatedAt,
	}

	return u, nil
}

func fromDBModels(models *Users) (domain.Users, error) {
	us := make(domain.Users, len(*models))
	for idx, u := range *models {
		du, err := fromDBModel(u)
		if err != nil {
			return nil, err
		}
		us[idx] = du
	}

	return us, nil
}
