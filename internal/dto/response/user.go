package response

import (
	"time"

	"appmarket/internal/data/entity"
)

// UserResponse never carries the password or reset fields.
type UserResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	Photo     string          `json:"photo"`
	Gender    *string         `json:"gender,omitempty"`
	Birthday  *string         `json:"birthday,omitempty"`
	Cart      []string        `json:"cart"`
	CreatedAt time.Time       `json:"created_at"`
}

type UserData struct {
	User UserResponse `json:"user"`
}

type UsersData struct {
	Users []map[string]any `json:"users"`
}

type BirthdayStatResponse struct {
	Month      int      `json:"month"`
	TotalUsers int      `json:"total_users"`
	Users      []string `json:"users"`
}

type BirthdayData struct {
	Stats []BirthdayStatResponse `json:"stats"`
}

func UserToResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Photo:     user.Photo,
		Gender:    user.Gender,
		Cart:      make([]string, 0, len(user.Cart)),
		CreatedAt: user.CreatedAt,
	}

	if user.Birthday != nil {
		b := user.Birthday.Format("2006-01-02")
		resp.Birthday = &b
	}
	for _, id := range user.Cart {
		resp.Cart = append(resp.Cart, id.String())
	}

	return resp
}

func BirthdayStatsToResponse(stats []entity.BirthdayStat) BirthdayData {
	out := make([]BirthdayStatResponse, 0, len(stats))
	for _, s := range stats {
		users := s.Users
		if users == nil {
			users = []string{}
		}
		out = append(out, BirthdayStatResponse{Month: s.Month, TotalUsers: s.TotalUsers, Users: users})
	}
	return BirthdayData{Stats: out}
}
