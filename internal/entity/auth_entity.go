package entity

type TokenClaims struct {
	UserId string `json:"userId"`
	Email  string `json:"email"`
}
