package recognition

import "gocv.io/x/gocv"

// ValidateImage checks that the bytes decode as a raster image, so ingestion
// can reject malformed uploads before any capture is queued. Returns
// ErrImageDecode on failure.
//
// When IMDecode returns an error the Mat carries no native allocation, so it
// must not be queried with Empty; undecodable-but-nonempty input yields a real
// Mat that is empty and must be closed.
func ValidateImage(data []byte) error {
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return ErrImageDecode
	}
	if img.Empty() {
		img.Close()
		return ErrImageDecode
	}
	img.Close()
	return nil
}
