package call

type CreateCallBody struct {
	Title           string `json:"title"`
	MaxParticipants int    `json:"max_participants" binding:"required"`
	AllowGuests     bool   `json:"allow_guests"`
	CameraRequired  bool   `json:"camera_required"`
	IsPublic        bool   `json:"is_public"`
}

type JoinCallBody struct {
	UserName string `json:"user_name"`
	IsGuest  bool   `json:"is_guest"`
}

type KickBody struct {
	UserID int64 `json:"user_id" binding:"required"`
}
