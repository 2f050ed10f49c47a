package api

import (
	"strings"
)

// User mirrors the user payload returned by /users and /users/{slug}.
type User struct {
	ID                    int64   `json:"id"`
	Followers             int64   `json:"followers"`
	Username              string  `json:"username"`
	Realname              string  `json:"realname"`
	Bio                   *string `json:"bio"`
	Following             bool    `json:"following"`
	ProfilePicturePhotoID *string `json:"profile_picture_photo_id"`
	BannerPhotoID         *string `json:"banner_photo_id"`
}

// DisplayName returns the real name, falling back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Realname); name != "" {
		return name
	}
	return u.Username
}

// BioText returns the bio or an empty string.
func (u User) BioText() string {
	if u.Bio == nil {
		return ""
	}
	return *u.Bio
}

// PostMedia references one media item attached to a post. Exactly one of the
// fields is set.
type PostMedia struct {
	Photo *string `json:"photo"`
	Video *string `json:"video"`
	Audio *string `json:"audio"`
}

// ID returns the attached media id and its kind ("photo", "video", "audio").
func (m PostMedia) ID() (id string, kind string) {
	switch {
	case m.Photo != nil:
		return *m.Photo, "photo"
	case m.Video != nil:
		return *m.Video, "video"
	case m.Audio != nil:
		return *m.Audio, "audio"
	}
	return "", ""
}

// PostMention is a user referenced from a post message.
type PostMention struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Post mirrors the post payload returned by the /posts endpoints.
type Post struct {
	ID           int64         `json:"id"`
	Message      *string       `json:"message"`
	LikeCount    int64         `json:"like_count"`
	CommentCount int64         `json:"comment_count"`
	Liked        bool          `json:"liked"`
	User         User          `json:"user"`
	Media        []PostMedia   `json:"media"`
	Mentions     []PostMention `json:"mentions"`
	Comment      bool          `json:"comment"`
}

// Text returns the post message or an empty string.
func (p Post) Text() string {
	if p.Message == nil {
		return ""
	}
	return *p.Message
}

// CreatePostRequest is the body of POST /posts/create. Media holds ids
// returned by the upload endpoint.
type CreatePostRequest struct {
	Message       *string  `json:"message"`
	Media         []string `json:"media"`
	CommentPostID *int64   `json:"comment_post_id"`
}

// CreatePostResponse is returned by POST /posts/create.
type CreatePostResponse struct {
	ID int64 `json:"id"`
}

// SettingsRequest is the body of POST /users/settings. Nil fields are left
// unchanged.
type SettingsRequest struct {
	Username              *string `json:"username,omitempty"`
	Realname              *string `json:"realname,omitempty"`
	Bio                   *string `json:"bio,omitempty"`
	ProfilePicturePhotoID *string `json:"profile_picture_photo_id,omitempty"`
	BannerPhotoID         *string `json:"banner_photo_id,omitempty"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Realname string `json:"realname"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries the session token issued by the auth endpoints.
type TokenResponse struct {
	Token string `json:"token"`
}

// UploadResponse mirrors POST /media/upload.
type UploadResponse struct {
	ID         string `json:"id"`
	Processing bool   `json:"processing"`
}

// MediaStatus mirrors GET /media/check/{id}.
type MediaStatus struct {
	ID              string `json:"id"`
	Processing      bool   `json:"processing"`
	ProcessingError string `json:"processing_error"`
}

// Page selects a window of results. Zero values use the server defaults.
type Page struct {
	Offset int64
	Count  int64
}

// PostQuery filters GET /posts/find.
type PostQuery struct {
	Page
	Feed     bool
	Username string
	ID       int64
}

// Progress reports bytes written to the wire for an upload.
type Progress struct {
	Sent  int64
	Total int64
}

// Fraction returns the completed share in [0,1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Sent) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}
