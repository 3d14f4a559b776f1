package art

import (
	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/util"
)

// SyncImage deduplicates an image against the owner's existing set. An exact
// (role, md5, size) match is discarded; a (role, description) match with a
// different md5 replaces the old content; anything else is attached as new.
func SyncImage(sess *catalog.Session, img *catalog.Image, owner catalog.ImageOwner) error {
	existing, err := sess.ImagesFor(owner)
	if err != nil {
		return err
	}

	for _, old := range existing {
		if old.Role != img.Role {
			continue
		}
		if old.MD5 == img.MD5 && old.Size == img.Size {
			util.DebugLog("Image already attached: %s (%s)", img.Description, img.Role)
			return nil
		}
		if old.Description == img.Description {
			util.InfoLog("Updating image: %s (%s)", img.Description, img.Role)
			if err := sess.RemoveImage(old.ID, owner); err != nil {
				return err
			}
			return sess.AddImage(img, owner)
		}
	}

	util.InfoLog("Attaching image: %s (%s)", img.Description, img.Role)
	return sess.AddImage(img, owner)
}
