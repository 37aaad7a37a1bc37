package entity

import "github.com/google/uuid"

type Application struct {
	Base
	Name      string    `db:"name"`
	VideoSrc  string    `db:"video_src"`
	ImgSrc    string    `db:"img_src"`
	Price     float64   `db:"price"`
	Route     string    `db:"route"`
	CreatorID uuid.UUID `db:"creator_id"`
	Tags      []string  `db:"tags"`
	Intro     string    `db:"intro"`
	Features  []string  `db:"features"`
}

// ApplicationSummary is the cart view of an application.
type ApplicationSummary struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Price     float64   `db:"price"`
	Route     string    `db:"route"`
	ImgSrc    string    `db:"img_src"`
	CreatorID uuid.UUID `db:"creator_id"`
}
