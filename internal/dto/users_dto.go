package dto

type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=255"`
	Locale *string `json:"locale" validate:"omitempty,oneof=en de"`
}

type SignedURLRequest struct {
	Path   string `json:"path" validate:"required,max=1024"`
	Bucket string `json:"bucket" validate:"max=255"`
}

type SignedUploadURLResponse struct {
	SignedUploadURL string `json:"signedUploadUrl"`
}

type SignedDownloadURLResponse struct {
	SignedDownloadURL string `json:"signedDownloadUrl"`
}
