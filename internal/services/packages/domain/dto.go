package domain

// UploadInput is the JSON body for POST /package.
// Content is the package archive, base64 encoded
type UploadInput struct {
	Content  string `json:"content" validate:"required,base64"`
	Filename string `json:"filename" validate:"omitempty,max=255"`
	UserID   string `json:"user_id" validate:"required,uuid4"`
}

// QueryInput is the JSON body for POST /packages. Name may be "*" to
// match every package; Range is an npm-style semver range expression
type QueryInput struct {
	Name   string `json:"name" validate:"required,min=1,max=214"`
	Range  string `json:"version" validate:"required,min=1,max=256"`
	Offset int    `json:"offset" validate:"omitempty,min=0"`
}

// RateInput names a source repository to score directly
type RateInput struct {
	Owner string `json:"owner" validate:"required,min=1,max=100"`
	Repo  string `json:"repo" validate:"required,min=1,max=100"`
}
