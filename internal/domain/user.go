package domain

// User is the authenticated identity reported by the service. It is immutable
// once fetched and replaced wholesale on re-login.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
