package export

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/gigsplit/gigsplit/internal/split"
)

// WriteArchive streams every split into a single zip archive on w,
// encoding one split at a time. Entry order matches the order of splits.
func (e *Exporter) WriteArchive(w io.Writer, splits []split.Split) error {
	zw := zip.NewWriter(w)

	err := e.Stream(splits, func(seg Segment) error {
		f, err := zw.Create(seg.Filename)
		if err != nil {
			return fmt.Errorf("create archive entry %s: %w", seg.Filename, err)
		}
		if _, err := f.Write(seg.Data); err != nil {
			return fmt.Errorf("write archive entry %s: %w", seg.Filename, err)
		}
		return nil
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
