package avatar

import "time"

// Avatar is an uploaded image owned by an account. The image bytes live
// in the file storage under FilePath; the row carries the metadata used
// for listing and serving.
type Avatar struct {
	ID          int64     `db:"id"`
	AccountID   int64     `db:"account_id"`
	Title       string    `db:"title"`
	FilePath    string    `db:"file_path"`
	ContentType string    `db:"content_type"`
	Size        int64     `db:"size"`
	CreatedAt   time.Time `db:"created_at"`
}
