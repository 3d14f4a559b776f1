package catalog

import (
	"database/sql"
	"fmt"
)

// ImageOwner is an entity images can attach to (artists and albums).
type ImageOwner interface {
	imageJunction() (table, fkColumn string)
	ownerID() int64
}

func (a *Artist) imageJunction() (string, string) { return "artist_images", "artist_id" }
func (a *Artist) ownerID() int64                  { return a.ID }

func (a *Album) imageJunction() (string, string) { return "album_images", "album_id" }
func (a *Album) ownerID() int64                  { return a.ID }

const imageColumns = "i.id, i.role, i.mime_type, i.md5, i.size, i.description"

func scanImage(row interface{ Scan(...interface{}) error }) (*Image, error) {
	img := &Image{}
	err := row.Scan(&img.ID, &img.Role, &img.MimeType, &img.MD5, &img.Size,
		&img.Description)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ImagesFor lists the owner's attached images. Binary data is not loaded;
// see LoadImageData.
func (sess *Session) ImagesFor(owner ImageOwner) ([]*Image, error) {
	junction, fk := owner.imageJunction()
	rows, err := sess.tx.Query(fmt.Sprintf(`
		SELECT %s FROM images i
		JOIN %s j ON j.img_id = i.id
		WHERE j.%s = ? ORDER BY i.id
	`, imageColumns, junction, fk), owner.ownerID())
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// AddImage validates and inserts the image, then links it to the owner.
func (sess *Session) AddImage(img *Image, owner ImageOwner) error {
	if err := img.Validate(); err != nil {
		return err
	}

	result, err := sess.tx.Exec(`
		INSERT INTO images (role, mime_type, md5, size, description, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`, img.Role, img.MimeType, img.MD5, img.Size, img.Description, img.Data)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	img.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get image id: %w", err)
	}

	junction, fk := owner.imageJunction()
	_, err = sess.tx.Exec(fmt.Sprintf(`
		INSERT INTO %s (%s, img_id) VALUES (?, ?)
	`, junction, fk), owner.ownerID(), img.ID)
	if err != nil {
		return fmt.Errorf("failed to link image: %w", err)
	}
	return nil
}

// RemoveImage unlinks the image from the owner and deletes its row.
func (sess *Session) RemoveImage(imgID int64, owner ImageOwner) error {
	junction, fk := owner.imageJunction()
	_, err := sess.tx.Exec(fmt.Sprintf(`
		DELETE FROM %s WHERE %s = ? AND img_id = ?
	`, junction, fk), owner.ownerID(), imgID)
	if err != nil {
		return fmt.Errorf("failed to unlink image: %w", err)
	}
	return sess.DeleteImage(imgID)
}

// DeleteImage removes the image row; junction rows cascade.
func (sess *Session) DeleteImage(imgID int64) error {
	if _, err := sess.tx.Exec("DELETE FROM images WHERE id = ?", imgID); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// ImageByID retrieves one image row (without data), or nil when absent.
func (sess *Session) ImageByID(id int64) (*Image, error) {
	img, err := scanImage(sess.tx.QueryRow(`
		SELECT ` + imageColumns + ` FROM images i WHERE i.id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return img, nil
}

// LoadImageData reads the deferred binary column into img.Data.
func (sess *Session) LoadImageData(img *Image) error {
	err := sess.tx.QueryRow(`
		SELECT data FROM images WHERE id = ?
	`, img.ID).Scan(&img.Data)
	if err != nil {
		return fmt.Errorf("failed to load image data: %w", err)
	}
	return nil
}
