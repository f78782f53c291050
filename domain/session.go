package domain

type Session struct {
	Token string `json:"access_token"`
	Email string `json:"email"`
}

func (s Session) SignedIn() bool {
	return s.Token != ""
}
