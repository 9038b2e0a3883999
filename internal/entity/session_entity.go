package entity

// AuthSession is what a successful signup or login leaves in the secure store.
// Tokens are empty when the server answered with the bare user shape.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	UserId       string
	UserEmail    string
}
