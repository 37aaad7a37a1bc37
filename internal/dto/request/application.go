package request

type CreateApplicationRequest struct {
	Name     string   `json:"name" validate:"required,min=2,max=60"`
	VideoSrc string   `json:"videoSrc" validate:"omitempty,url"`
	ImgSrc   string   `json:"imgSrc" validate:"omitempty,url"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Route    string   `json:"route" validate:"required"`
	Tags     []string `json:"tags" validate:"omitempty,dive,required"`
	Intro    string   `json:"intro" validate:"omitempty,max=500"`
	Features []string `json:"features" validate:"omitempty,dive,required"`
}
