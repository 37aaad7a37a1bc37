package response

import (
	"time"

	"appmarket/internal/data/entity"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	VideoSrc  string    `json:"video_src"`
	ImgSrc    string    `json:"img_src"`
	Price     float64   `json:"price"`
	Route     string    `json:"route"`
	CreatorID string    `json:"creator_id"`
	Tags      []string  `json:"tags"`
	Intro     string    `json:"intro"`
	Features  []string  `json:"features"`
	CreatedAt time.Time `json:"created_at"`
}

type ApplicationSummaryResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Route     string  `json:"route"`
	ImgSrc    string  `json:"img_src"`
	CreatorID string  `json:"creator_id"`
}

type ApplicationData struct {
	Application ApplicationResponse `json:"application"`
}

type ApplicationsData struct {
	Applications []map[string]any `json:"applications"`
}

type CartItemData struct {
	Application ApplicationSummaryResponse `json:"application"`
}

type CartData struct {
	Cart []ApplicationSummaryResponse `json:"cart"`
}

type CartIDsData struct {
	Cart []string `json:"cart"`
}

func ApplicationToResponse(app *entity.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        app.ID.String(),
		Name:      app.Name,
		VideoSrc:  app.VideoSrc,
		ImgSrc:    app.ImgSrc,
		Price:     app.Price,
		Route:     app.Route,
		CreatorID: app.CreatorID.String(),
		Tags:      nonNil(app.Tags),
		Intro:     app.Intro,
		Features:  nonNil(app.Features),
		CreatedAt: app.CreatedAt,
	}
}

func SummaryToResponse(s entity.ApplicationSummary) ApplicationSummaryResponse {
	return ApplicationSummaryResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Price:     s.Price,
		Route:     s.Route,
		ImgSrc:    s.ImgSrc,
		CreatorID: s.CreatorID.String(),
	}
}

func SummariesToResponse(items []entity.ApplicationSummary) CartData {
	out := make([]ApplicationSummaryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, SummaryToResponse(item))
	}
	return CartData{Cart: out}
}

func CartIDsToResponse(ids []uuid.UUID) CartIDsData {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return CartIDsData{Cart: out}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
