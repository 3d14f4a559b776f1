package art

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/franz/mishmash/internal/catalog"
)

// FromPicture converts a tag-embedded picture into an image row. Pictures
// with an unmapped type return (nil, nil) so the caller can skip them.
func FromPicture(pic *tag.Picture) (*catalog.Image, error) {
	role, ok := PictureRole(pic.Type)
	if !ok {
		return nil, nil
	}
	if !strings.HasPrefix(pic.MIMEType, "image/") {
		return nil, fmt.Errorf("not an image mime type: %s", pic.MIMEType)
	}

	sum := md5.Sum(pic.Data)
	return &catalog.Image{
		Role:        role,
		MimeType:    pic.MIMEType,
		MD5:         hex.EncodeToString(sum[:]),
		Size:        int64(len(pic.Data)),
		Description: pic.Description,
		Data:        pic.Data,
	}, nil
}

// FromFile reads a sidecar image file into an image row with the given role.
// The description is the base filename.
func FromFile(path, role string) (*catalog.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("not an image mime type: %s", mimeType)
	}

	sum := md5.Sum(data)
	return &catalog.Image{
		Role:        role,
		MimeType:    mimeType,
		MD5:         hex.EncodeToString(sum[:]),
		Size:        int64(len(data)),
		Description: filepath.Base(path),
		Data:        data,
	}, nil
}
