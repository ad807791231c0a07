package user

import "drive-me-local/internal/domain/user"

func ToResponseUser(uDomain user.User) User {
	return User{
		ID:        int64(uDomain.ID),
		Username:  uDomain.Username,
		Role:      uDomain.Role.String(),
		CreatedAt: uDomain.CreatedAt,
	}
}

func ToResponseUsers(usDomain user.Users) Users {
	us := make(Users, len(usDomain))
	for idx, u := range usDomain {
		us[idx] = ToResponseUser(*u)
	}

	return us
}
