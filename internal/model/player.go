package model

type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    Color  `json:"color"`
	Computer bool   `json:"computer"`
}
