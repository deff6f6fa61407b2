package upload

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// AllowList enumerates acceptable mime types for one upload flow. It is
// plain data so different flows can carry different lists without touching
// the checking code.
type AllowList []string

var (
	// BaseImageTypes is the default allow-list for image uploads.
	BaseImageTypes = AllowList{"image/jpeg", "image/png"}
	// ProfileImageTypes additionally accepts GIF for profile pictures.
	ProfileImageTypes = AllowList{"image/jpeg", "image/png", "image/gif"}
)

func (a AllowList) Allows(mime string) bool {
	for _, allowed := range a {
		if allowed == mime {
			return true
		}
	}
	return false
}

// Policy bundles an allow-list with the server-side payload ceiling. The
// content type is sniffed from the bytes themselves; the client-declared
// header is never trusted.
type Policy struct {
	Allowed  AllowList
	MaxBytes int64
}

// Check validates payload size and sniffed content type.
func (p Policy) Check(data []byte) error {
	if int64(len(data)) > p.MaxBytes {
		return fmt.Errorf("file too large")
	}
	if !p.Allowed.Allows(mimetype.Detect(data).String()) {
		return fmt.Errorf("unsupported image type")
	}
	return nil
}
