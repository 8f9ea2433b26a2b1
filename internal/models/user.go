package models

type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatarUrl"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// Identity is what the external login provider hands us about a user.
type Identity struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

type CreateUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatarUrl"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

type UpdateUserRequest struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatarUrl"`
	IsLoggedIn bool   `json:"is_logged_in"`
}
